// Package meter reads each turbine's hourly energy profile from the plant's
// Modbus meter and turns it into hourly-reading grid entries.
package meter

import (
	"fmt"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/reconcile"

	"go.uber.org/zap"
)

// profileWords is one uint32 counter per hour.
const profileWords = 2 * model.Hours

// RegisterReader is satisfied by *Client.
type RegisterReader interface {
	ReadInputRegisters(address uint16, quantity uint16) ([]uint16, error)
}

// Register locates a turbine's profile block: 24 consecutive uint32 values,
// low word first, starting at Address. Scale converts counts to MWh.
type Register struct {
	TurbineID int
	Address   uint16
	Scale     float64
}

type Meter struct {
	reader    RegisterReader
	registers []Register
	logger    *zap.SugaredLogger
}

func New(reader RegisterReader, registers []Register, logger *zap.SugaredLogger) *Meter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Meter{reader: reader, registers: registers, logger: logger}
}

// ReadProfile returns one entry per configured turbine and hour, hour 1 being
// the first register pair.
func (m *Meter) ReadProfile() ([]reconcile.Entry, error) {
	entries := make([]reconcile.Entry, 0, len(m.registers)*model.Hours)
	for _, reg := range m.registers {
		regs, err := m.reader.ReadInputRegisters(reg.Address, profileWords)
		if err != nil {
			return nil, fmt.Errorf("turbine %d: %w", reg.TurbineID, err)
		}
		if len(regs) < profileWords {
			return nil, fmt.Errorf("turbine %d: short read of %d registers", reg.TurbineID, len(regs))
		}
		scale := reg.Scale
		if scale == 0 {
			scale = 1
		}
		for h := 0; h < model.Hours; h++ {
			raw := uint32(regs[2*h]) | uint32(regs[2*h+1])<<16
			entries = append(entries, reconcile.Entry{
				TurbineID: reg.TurbineID,
				Hour:      h + 1,
				Value:     float64(raw) * scale,
			})
		}
		m.logger.Debugw("meter profile read", "turbine_id", reg.TurbineID, "address", reg.Address)
	}
	return entries, nil
}

// NonZero drops hours the meter has not accumulated yet so an import never
// clears a value entered by hand.
func NonZero(entries []reconcile.Entry) []reconcile.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Value != 0 {
			out = append(out, e)
		}
	}
	return out
}
