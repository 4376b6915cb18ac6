package dineflow

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/Apurer/dineflow/internal/shared/errors"
)

type session struct {
	t   *testing.T
	cfg Config
}

func newSession(t *testing.T) *session {
	t.Helper()
	dir := t.TempDir()
	return &session{t: t, cfg: Config{
		DataDir:       dir,
		MenuFile:      filepath.Join(dir, "menu.json"),
		OrdersFile:    filepath.Join(dir, "orders.json"),
		ReceiptDir:    filepath.Join(dir, "receipts"),
		AMQPExchange:  "dineflow.orders",
		TraceExporter: "none",
	}}
}

func (s *session) run(args ...string) (int, string, string) {
	s.t.Helper()
	var out, errOut bytes.Buffer
	cfg := s.cfg
	code := Execute(context.Background(), args, CommandOptions{
		Out:    &out,
		ErrOut: &errOut,
		Config: &cfg,
		Clock:  func() time.Time { return time.Date(2024, 3, 9, 19, 30, 0, 0, time.UTC) },
	})
	return code, out.String(), errOut.String()
}

func (s *session) mustRun(args ...string) string {
	s.t.Helper()
	code, out, errOut := s.run(args...)
	require.Equal(s.t, 0, code, "stderr: %s", errOut)
	return out
}

func TestCLI_OrderLifecycleAcrossRestarts(t *testing.T) {
	s := newSession(t)

	s.mustRun("menu", "add-beverage", "Cola", "100", "--size", "small")
	s.mustRun("menu", "add-food", "Paneer Tikka", "200", "--cuisine", "Indian")

	out := s.mustRun("order", "create", "--table", "4", "--customer", "Meera",
		"--item", "cola", "--discount", "10", "--note", "no ice")
	assert.Contains(t, out, "ORDER ID: #1001 | TABLE: 4")
	assert.Contains(t, out, "TOTAL: ₹94.50")

	out = s.mustRun("order", "create", "--table", "4", "--customer", "Ravi", "--item", "Paneer Tikka")
	assert.Contains(t, out, "ORDER ID: #1002")

	out = s.mustRun("order", "status", "1001", "4")
	assert.Contains(t, out, "order #1001 is now BILLED")

	out = s.mustRun("order", "list")
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "BILLED")

	out = s.mustRun("report")
	assert.Contains(t, out, "Total orders:   2")
	assert.Contains(t, out, "Total revenue:  ₹304.50")
	assert.Contains(t, out, "Billed orders:  1")

	out = s.mustRun("report", "popular", "--top", "5")
	assert.Contains(t, out, "Cola")
	assert.Contains(t, out, "Paneer Tikka")

	out = s.mustRun("order", "receipt", "1001")
	assert.Contains(t, out, "receipt_1001.txt")
	data, err := os.ReadFile(filepath.Join(s.cfg.ReceiptDir, "receipt_1001.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Special instructions:\nno ice")
}

func TestCLI_ReportWithoutOrders(t *testing.T) {
	s := newSession(t)

	out := s.mustRun("report")
	assert.Contains(t, out, "Total orders:   0")
	assert.Contains(t, out, "Average order:  n/a")
	assert.NotContains(t, out, "Busiest tables")

	out = s.mustRun("report", "popular")
	assert.Contains(t, out, "no items ordered yet")
}

func TestCLI_ExitCodes(t *testing.T) {
	s := newSession(t)
	s.mustRun("menu", "add-food", "Dal", "90")

	code, _, errOut := s.run("menu", "price", "Roti", "10")
	assert.Equal(t, sharederrors.ExitNotFound, code)
	assert.Contains(t, errOut, "Not Found")

	code, _, _ = s.run("menu", "price", "--", "Dal", "-5")
	assert.Equal(t, sharederrors.ExitValidation, code)

	code, _, _ = s.run("order", "create", "--table", "1", "--customer", "Asha", "--item", "Roti")
	assert.Equal(t, sharederrors.ExitValidation, code)

	code, _, _ = s.run("order", "show", "4242")
	assert.Equal(t, sharederrors.ExitNotFound, code)

	code, _, _ = s.run("order", "status", "1001", "LOST")
	assert.Equal(t, sharederrors.ExitValidation, code)
}

func TestCLI_MalformedDiscountLeavesPopularityAlone(t *testing.T) {
	s := newSession(t)
	s.mustRun("menu", "add-beverage", "Cola", "50")

	code, _, _ := s.run("order", "create", "--table", "3", "--customer", "Kabir",
		"--item", "Cola", "--item", "Cola", "--discount", "ten")
	assert.Equal(t, sharederrors.ExitValidation, code)

	out := s.mustRun("report", "popular")
	assert.Contains(t, out, "no items ordered yet")
	out = s.mustRun("order", "list")
	assert.NotContains(t, out, "Kabir")

	out = s.mustRun("order", "create", "--table", "3", "--customer", "Kabir", "--item", "Cola")
	assert.Contains(t, out, "ORDER ID: #1001")
}

func TestCLI_UnavailableItemIsSkipped(t *testing.T) {
	s := newSession(t)
	s.mustRun("menu", "add-food", "Dal", "90")
	s.mustRun("menu", "add-food", "Rice", "50")
	s.mustRun("menu", "toggle", "rice")

	code, out, errOut := s.run("order", "create", "--table", "2", "--customer", "Asha", "--item", "Rice", "--item", "Dal")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, `skipped "Rice"`)
	assert.Contains(t, out, "1. Dal")

	out = s.mustRun("menu", "list", "--category", "food")
	assert.Contains(t, out, "Rice | ")
	assert.Contains(t, out, "(unavailable)")
}

func TestCLI_JSONErrors(t *testing.T) {
	s := newSession(t)

	code, _, errOut := s.run("--json-errors", "order", "show", "4242")
	assert.Equal(t, sharederrors.ExitNotFound, code)
	assert.Contains(t, errOut, `"type":"/problems/not-found"`)
	assert.Contains(t, errOut, `"instance":"dineflow order show"`)
}
