package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionMetadataRoundTrip(t *testing.T) {
	meta := TransactionMetadata{
		CollectionID:        "12",
		BusinessID:          "34",
		ContributionPercent: 25.5,
		Extra: map[string]interface{}{
			"campaign": "summer-sale",
		},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	// Các key đã biết phải nằm phẳng trong object, không nest
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "12", raw["collectionId"])
	require.Equal(t, "34", raw["businessId"])
	require.InDelta(t, 25.5, raw["contributionPercent"], 0.001)
	require.Equal(t, "summer-sale", raw["campaign"])

	var got TransactionMetadata
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, meta.CollectionID, got.CollectionID)
	require.Equal(t, meta.BusinessID, got.BusinessID)
	require.InDelta(t, meta.ContributionPercent, got.ContributionPercent, 0.001)
	require.Equal(t, "summer-sale", got.Extra["campaign"])
}

func TestTransactionMetadataCoercesTypes(t *testing.T) {
	// Writer cũ có thể ghi collectionId dạng số và percent dạng string
	var meta TransactionMetadata
	require.NoError(t, json.Unmarshal([]byte(`{"collectionId":12,"contributionPercent":"30"}`), &meta))

	require.Equal(t, "12", meta.CollectionID)
	require.InDelta(t, 30.0, meta.ContributionPercent, 0.001)
	require.Nil(t, meta.Extra)
}

func TestTransactionMetadataOmitsZeroValues(t *testing.T) {
	data, err := json.Marshal(TransactionMetadata{})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}
