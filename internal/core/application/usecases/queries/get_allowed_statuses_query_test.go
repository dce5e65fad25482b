package queries_test

import (
	"testing"

	"logistics/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetAllowedStatusesQuery_Valid(t *testing.T) {
	query, err := queries.NewGetAllowedStatusesQuery("ORD-2024-0001")
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "ORD-2024-0001", query.OrderRef())
}

func TestNewGetAllowedStatusesQuery_EmptyRef(t *testing.T) {
	_, err := queries.NewGetAllowedStatusesQuery("")
	require.Error(t, err)
}

func TestGetAllowedStatusesQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetAllowedStatusesQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetAllowedStatusesQueryIsNotConstructed)
}
