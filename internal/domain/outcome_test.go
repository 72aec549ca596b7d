package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReplyMessage_Registered(t *testing.T) {
	outcome := Outcome{
		Type: OutcomeRegistered,
		Account: &Account{
			ID:            uuid.New(),
			Name:          "Ada Obi",
			AccountNumber: "12345678901",
			Balance:       decimal.RequireFromString("10000"),
		},
		CurrencyScale: 2,
	}

	msg := outcome.ReplyMessage()
	assert.Contains(t, msg, "Welcome Ada Obi")
	assert.Contains(t, msg, "Your account number is 12345678901")
	assert.Contains(t, msg, "#10000.00")
}

func TestReplyMessage_BalanceReported(t *testing.T) {
	outcome := Outcome{
		Type:          OutcomeBalanceReported,
		Balance:       decimal.RequireFromString("7500"),
		CurrencyScale: 2,
	}

	assert.Equal(t, "Your current balance is #7500.00", outcome.ReplyMessage())
}

func TestReplyMessage_Transferred(t *testing.T) {
	outcome := Outcome{
		Type:                OutcomeTransferred,
		Amount:              decimal.RequireFromString("2500"),
		SenderName:          "Ada Obi",
		SenderNewBalance:    decimal.RequireFromString("7500"),
		RecipientName:       "Chloe Eze",
		RecipientPhone:      "+2348000000002",
		RecipientNewBalance: decimal.RequireFromString("12500"),
		CurrencyScale:       2,
	}

	assert.Equal(t, "You have transferred #2500.00 to Chloe Eze. Your new balance is #7500.00", outcome.ReplyMessage())
	assert.Equal(t, "You have received #2500.00 from Ada Obi. Your new balance is #12500.00", outcome.RecipientMessage())
}

func TestRecipientMessage_EmptyForNonTransfers(t *testing.T) {
	assert.Empty(t, Failed(ReasonInsufficientBalance).RecipientMessage())
	assert.Empty(t, Outcome{Type: OutcomeBalanceReported}.RecipientMessage())
}

func TestReplyMessage_FailureReasons(t *testing.T) {
	tests := []struct {
		reason FailureReason
		want   string
	}{
		{ReasonInvalidCommand, "Invalid command. Please try again."},
		{ReasonAccountNotFound, "User not found. Please register first."},
		{ReasonInsufficientBalance, "Transfer failed. Please check your balance and try again."},
		{ReasonInvalidRecipient, "Transfer failed. The recipient account could not be found."},
		{ReasonStoreUnavailable, "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			assert.Equal(t, tt.want, Failed(tt.reason).ReplyMessage())
		})
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{
		ID:            uuid.New(),
		NIN:           "12345678901",
		Name:          "Ada Obi",
		PhoneNumber:   "+2348000000001",
		AccountNumber: "12345678901",
		Balance:       decimal.RequireFromString("10000"),
		Version:       1,
	}
	assert.NoError(t, valid.Validate())

	negative := valid
	negative.Balance = decimal.RequireFromString("-1")
	assert.Error(t, negative.Validate())

	noPhone := valid
	noPhone.PhoneNumber = ""
	assert.Error(t, noPhone.Validate())

	zeroVersion := valid
	zeroVersion.Version = 0
	assert.Error(t, zeroVersion.Validate())
}
