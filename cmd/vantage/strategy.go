package main

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/saiputra-labs/vantage/internal/book"
	"github.com/saiputra-labs/vantage/internal/clock"
	"github.com/saiputra-labs/vantage/internal/exchange"
	"github.com/saiputra-labs/vantage/internal/series"
)

// periodicTaker is a sample strategy.Callback: every period-th tick it
// crosses the spread with a small market buy, logging fills as they
// arrive. It exists purely to exercise the data flow end to end;
// it is not a trading strategy worth running against real capital.
type periodicTaker struct {
	ex         exchange.Exchange
	instrument exchange.Instrument
	orderSize  decimal.Decimal
	period     int

	seen int
}

func newPeriodicTaker(ex exchange.Exchange, instrument exchange.Instrument, orderSize decimal.Decimal, period int) *periodicTaker {
	return &periodicTaker{ex: ex, instrument: instrument, orderSize: orderSize, period: period}
}

func (p *periodicTaker) OnMarketData(at clock.Instant, item any) {
	tick, ok := item.(series.Tick)
	if !ok {
		return
	}
	p.seen++
	log.Debug().Time("at", at.Time()).Str("price", tick.Price.String()).Msg("tick")

	if p.period <= 0 || p.seen%p.period != 0 {
		return
	}

	p.ex.SubmitMarket(exchange.MarketCommand{
		ClientOID:  newClientOID(),
		Side:       book.Buy,
		Instrument: p.instrument,
		Size:       p.orderSize,
	})
}

func (p *periodicTaker) OnFill(f exchange.Fill) {
	log.Info().
		Str("orderID", f.OrderID).
		Str("side", f.Side.String()).
		Str("price", f.Price.String()).
		Str("size", f.Size.String()).
		Msg("fill")
}

func (p *periodicTaker) OnOrderEvent(e exchange.OrderEvent) {
	log.Debug().Str("orderID", e.OrderID).Int("kind", int(e.Kind)).Msg("order event")
}

func (p *periodicTaker) OnExchangeError(e exchange.ExchangeError) {
	log.Warn().Err(e).Str("orderID", e.OrderID).Msg("exchange error")
}

func (p *periodicTaker) OnTimer(at clock.Instant, id string) {
	log.Debug().Time("at", at.Time()).Str("id", id).Msg("timer")
}
