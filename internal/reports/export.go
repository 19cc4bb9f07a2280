package reports

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8 = "utf8"
	EncodingSJIS = "sjis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOverdueCSV writes the overdue report as CSV. utf8 gets a BOM so
// Excel picks the right charset; sjis re-encodes through Shift_JIS for
// legacy spreadsheet tooling.
func WriteOverdueCSV(w io.Writer, rows []OverdueRow, encoding string) error {
	var out io.Writer = w
	switch encoding {
	case EncodingSJIS:
		out = transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
	default:
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"borrower", "title", "due_date", "overdue_days", "fine"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Borrower,
			r.Title,
			r.DueDate,
			strconv.FormatInt(r.OverdueDays, 10),
			strconv.FormatInt(r.Fine, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
