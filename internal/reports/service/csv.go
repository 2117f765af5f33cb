package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/edupay/feereport/internal/guard"
)

// csvColumns is the fixed export header. Masked values render empty; the
// column set never shrinks.
var csvColumns = []string{
	"referenceCode",
	"status",
	"dueDate",
	"amountDue",
	"amountPaid",
	"paymentMethod",
	"studentFirstName",
	"studentLastName",
	"guardianEmail",
	"guardianPhone",
	"grade",
	"schoolName",
}

func encodeCSV(records []guard.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvColumns); err != nil {
		return nil, err
	}
	for _, record := range records {
		student, _ := record["student"].(map[string]any)
		row := []string{
			cell(record["referenceCode"]),
			cell(record["status"]),
			cell(record["dueDate"]),
			cell(record["amountDue"]),
			cell(record["amountPaid"]),
			cell(record["paymentMethod"]),
			cell(student["firstName"]),
			cell(student["lastName"]),
			cell(student["guardianEmail"]),
			cell(student["guardianPhone"]),
			cell(student["grade"]),
			cell(student["schoolName"]),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', 2, 64)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}
