package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealPatch_NullClearsOptionalFields(t *testing.T) {
	p, v, dur := 60, decimal.NewFromInt(900), 30
	closing := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d := &Deal{
		DealName:            "Apollo",
		Stage:               StageOffered,
		Region:              "EMEA",
		Probability:         &p,
		Priority:            2,
		TotalContractValue:  &v,
		ExpectedClosingDate: &closing,
		ProjectDuration:     &dur,
	}

	var patch DealPatch
	body := `{"probability":null,"priority":null,"total_contract_value":null,` +
		`"expected_closing_date":null,"region":null,"deal_name":null,"stage":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &patch))
	assert.True(t, patch.Clears("probability"))
	assert.False(t, patch.Clears("deal_name"), "required fields ignore null")

	patch.Apply(d)
	assert.Nil(t, d.Probability)
	assert.Zero(t, d.Priority)
	assert.Nil(t, d.TotalContractValue)
	assert.Nil(t, d.ExpectedClosingDate)
	assert.Empty(t, d.Region)
	assert.Equal(t, "Apollo", d.DealName)
	assert.Equal(t, StageOffered, d.Stage)
	require.NotNil(t, d.ProjectDuration, "absent fields are untouched")
	assert.Equal(t, 30, *d.ProjectDuration)
}

func TestDealPatch_ValuesStillApply(t *testing.T) {
	d := &Deal{DealName: "Apollo", Stage: StageLead}

	var patch DealPatch
	require.NoError(t, json.Unmarshal([]byte(`{"probability":0,"stage":"Won","customer_name":"Acme"}`), &patch))
	patch.Apply(d)

	require.NotNil(t, d.Probability)
	assert.Equal(t, 0, *d.Probability)
	assert.Equal(t, StageWon, d.Stage)
	assert.Equal(t, "Acme", d.CustomerName)
}

func TestDealPatch_Clear(t *testing.T) {
	p := 10
	d := &Deal{DealName: "X", Probability: &p}

	var patch DealPatch
	patch.Clear("probability")
	patch.Clear("owner_id")
	assert.False(t, patch.Clears("owner_id"))
	patch.Apply(d)
	assert.Nil(t, d.Probability)
}
