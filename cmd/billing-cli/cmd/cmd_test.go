package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/billing-api/internal/domain/pricing"
	"github.com/xenking/billing-api/internal/wire"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuote_Flags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "pro tier with coupon on Tuesday",
			args: []string{"quote", "--tier", "pro", "--region", "US", "--coupon", "save10", "--weekday", "1", "--item", "A:10:10"},
			want: `{"subtotal":100,"discount":15,"tax":6.8,"total":91.8,"currency":"USD"}`,
		},
		{
			name: "same order on Saturday",
			args: []string{"quote", "--tier", "pro", "--region", "US", "--coupon", "SAVE10", "--weekday", "5", "--item", "A:10:10"},
			want: `{"subtotal":100,"discount":20,"tax":6.4,"total":86.4,"currency":"USD"}`,
		},
		{
			name: "non-numeric price counts as zero",
			args: []string{"quote", "--tier", "free", "--region", "EU", "--weekday", "2", "--item", "A:2:50", "--item", "B:1:abc"},
			want: `{"subtotal":100,"discount":0,"tax":20,"total":120,"currency":"USD"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestQuote_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.json")
	body := `{"user_id":"u1","tier":"free","region":"EU","items":[{"sku":"A","qty":2,"unit_price":50},{"sku":"B","qty":1,"unit_price":100}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := run(t, "quote", "--file", path, "--weekday", "2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"subtotal":200,"discount":0,"tax":40,"total":240,"currency":"USD"}`, out)
}

func TestQuote_Errors(t *testing.T) {
	_, err := run(t, "quote", "--tier", "pro")
	assert.ErrorIs(t, err, wire.ErrEmptyItems)

	_, err = run(t, "quote", "--item", "A:1")
	assert.ErrorContains(t, err, "SKU:QTY:PRICE")

	tests := []struct {
		name      string
		args      []string
		wantField string
	}{
		{name: "unknown tier", args: []string{"quote", "--tier", "gold", "--item", "A:1:10"}, wantField: "tier"},
		{name: "unknown region", args: []string{"quote", "--region", "MARS", "--item", "A:1:10"}, wantField: "region"},
		{name: "lowercase region", args: []string{"quote", "--region", "eu", "--item", "A:1:10"}, wantField: "region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			var verr *wire.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Empty(t, out)
		})
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_id":"u","tier":"gold","region":"EU","items":[]}`), 0o600))
	_, err = run(t, "quote", "--file", path)
	var verr *wire.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tier", verr.Field)
}

func TestBulk(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "below first tier", args: []string{"bulk", "--item", "A:19:10"}, want: `{"discount":0}`},
		{name: "quantities are summed", args: []string{"bulk", "--item", "A:10:10", "--item", "B:10:10"}, want: `{"discount":10}`},
		{name: "fifty items", args: []string{"bulk", "--item", "A:50:20"}, want: `{"discount":100}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}

	_, err := run(t, "bulk")
	assert.ErrorIs(t, err, wire.ErrEmptyItems)
}

func TestParseItem(t *testing.T) {
	it, err := parseItem("SKU-1:3:2.5")
	require.NoError(t, err)
	assert.Equal(t, pricing.Item{SKU: "SKU-1", Quantity: 3, UnitPrice: 2.5}, it)

	it, err = parseItem("X:many:-4")
	require.NoError(t, err)
	assert.Equal(t, pricing.Item{SKU: "X"}, it)
}

func TestCharge(t *testing.T) {
	out, err := run(t, "charge", "--user", "bob", "--amount", "100", "--method", "card", "--region", "EU")
	require.NoError(t, err)
	assert.JSONEq(t, `{"approved":true,"reason":"Transaction approved","risk_score":0.15}`, out)

	_, err = run(t, "charge", "--user", "bob", "--amount", "100", "--method", "crypto")
	var verr *wire.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "payment_method", verr.Field)

	_, err = run(t, "charge", "--amount", "100")
	assert.Error(t, err)
}

func TestRisk(t *testing.T) {
	out, err := run(t, "risk", "--user", "peggy", "--amount", "20000", "--method", "invoice", "--region", "APAC")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"score": 0.66,
		"high_risk": false,
		"medium_risk": true,
		"flags": ["high_amount", "apac_invoice_review", "invoice_payment"],
		"requires_verification": true,
		"reason": "Transaction flagged for review"
	}`, out)
}

func TestCoupons(t *testing.T) {
	out, err := run(t, "coupons")
	require.NoError(t, err)
	lines := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if fields := strings.Fields(line); len(fields) == 2 {
			lines[fields[0]] = fields[1]
		}
	}
	assert.Equal(t, "10", lines["SAVE10"])
	assert.Equal(t, "20", lines["SAVE20"])
	assert.Equal(t, "15", lines["WELCOME"])
	assert.Equal(t, "50", lines["VIP50"])
	assert.Equal(t, "5", lines["pro"])
	assert.Equal(t, "15", lines["enterprise"])
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "billing-cli version dev\n", out)
}
