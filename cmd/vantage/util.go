package main

import "github.com/google/uuid"

// newClientOID generates a fresh client order id.
func newClientOID() string {
	return uuid.New().String()
}
