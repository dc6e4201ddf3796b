package transaction

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusRefunded, false},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRefunded, true},
		{StatusApproved, StatusApproved, false},
		{StatusApproved, StatusFailed, false},
		{StatusFailed, StatusApproved, false},
		{StatusFailed, StatusRefunded, false},
		{StatusRefunded, StatusApproved, false},
		{StatusRefunded, StatusPending, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAllowedTargetsTerminalStates(t *testing.T) {
	if targets := AllowedTargets(StatusFailed); len(targets) != 0 {
		t.Fatalf("FAILED should be terminal, got targets %v", targets)
	}
	if targets := AllowedTargets(StatusRefunded); len(targets) != 0 {
		t.Fatalf("REFUNDED should be terminal, got targets %v", targets)
	}
}

func TestBalanceDeltas(t *testing.T) {
	amount := decimal.RequireFromString("250.75")

	cases := []struct {
		name         string
		txType       Type
		to           Status
		wantBalance  string
		wantReserved string
	}{
		{"debit approved", TypeDebit, StatusApproved, "-250.75", "-250.75"},
		{"debit failed", TypeDebit, StatusFailed, "0", "-250.75"},
		{"debit refunded", TypeDebit, StatusRefunded, "250.75", "0"},
		{"credit approved", TypeCredit, StatusApproved, "250.75", "0"},
		{"credit refunded", TypeCredit, StatusRefunded, "-250.75", "0"},
		{"credit failed", TypeCredit, StatusFailed, "0", "0"},
	}
	for _, tc := range cases {
		balance, reserved := balanceDeltas(tc.txType, tc.to, amount)
		if balance.String() != decimal.RequireFromString(tc.wantBalance).String() {
			t.Errorf("%s: balance delta = %s, want %s", tc.name, balance, tc.wantBalance)
		}
		if reserved.String() != decimal.RequireFromString(tc.wantReserved).String() {
			t.Errorf("%s: reserved delta = %s, want %s", tc.name, reserved, tc.wantReserved)
		}
	}
}

func TestBalanceDeltasAreReversible(t *testing.T) {
	amount := decimal.RequireFromString("0.03")

	// approve then refund a credit: the balance must come back exactly
	approveB, _ := balanceDeltas(TypeCredit, StatusApproved, amount)
	refundB, _ := balanceDeltas(TypeCredit, StatusRefunded, amount)
	if !approveB.Add(refundB).IsZero() {
		t.Fatalf("credit approve+refund deltas do not cancel: %s", approveB.Add(refundB))
	}

	// approve then refund a debit likewise
	approveB, _ = balanceDeltas(TypeDebit, StatusApproved, amount)
	refundB, _ = balanceDeltas(TypeDebit, StatusRefunded, amount)
	if !approveB.Add(refundB).IsZero() {
		t.Fatalf("debit approve+refund deltas do not cancel: %s", approveB.Add(refundB))
	}
}
