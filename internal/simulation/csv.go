package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	return writeFile(path, func(w io.Writer) error { return WriteLedger(w, ledger) })
}

func WriteParticipantsCSV(path string, ps []ParticipantSummary) error {
	return writeFile(path, func(w io.Writer) error { return WriteParticipants(w, ps) })
}

// WriteLedger writes one CSV row per trade.
func WriteLedger(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	header := []string{"day", "slot", "round", "seller", "buyer", "quantity_kwh", "price", "value"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Day),
			strconv.Itoa(r.Slot),
			strconv.Itoa(r.Round),
			r.SellerID,
			r.BuyerID,
			fmtFloat(r.Quantity),
			fmtFloat(r.Price),
			fmtFloat(r.Value()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteParticipants(out io.Writer, ps []ParticipantSummary) error {
	w := csv.NewWriter(out)

	header := []string{"id", "prosumer", "cost", "revenue", "net", "storage_kwh", "battery_capacity_kwh"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range ps {
		row := []string{
			p.ID,
			strconv.FormatBool(p.IsProsumer),
			fmtFloat(p.Cost),
			fmtFloat(p.Revenue),
			fmtFloat(p.Net()),
			fmtFloat(p.Storage),
			fmtFloat(p.BatteryCapacity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
