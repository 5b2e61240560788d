package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agritrade/internal/agritradeapi"
)

func txFixture(n int) []agritradeapi.Transaction {
	txes := make([]agritradeapi.Transaction, n)
	for i := range txes {
		txes[i].Id = uint(i + 1)
	}
	return txes
}

func TestPaginateTxFirstPage(t *testing.T) {
	paginated := paginateTx(txFixture(45), 1, 20)
	assert.Equal(t, 45, paginated.Count)
	assert.Len(t, paginated.Results, 20)
	assert.Equal(t, uint(1), paginated.Results[0].Id)
	assert.Equal(t, "/users/tx/?page=2&size=20", paginated.Next)
	assert.Empty(t, paginated.Previous)
}

func TestPaginateTxLastPartialPage(t *testing.T) {
	paginated := paginateTx(txFixture(45), 3, 20)
	assert.Len(t, paginated.Results, 5)
	assert.Equal(t, uint(41), paginated.Results[0].Id)
	assert.Empty(t, paginated.Next)
	assert.Equal(t, "/users/tx/?page=2&size=20", paginated.Previous)
}

func TestPaginateTxPastTheEnd(t *testing.T) {
	paginated := paginateTx(txFixture(10), 5, 20)
	assert.Equal(t, 10, paginated.Count)
	assert.Empty(t, paginated.Results)
	assert.NotNil(t, paginated.Results)
}

func TestPaginateTxEmpty(t *testing.T) {
	paginated := paginateTx(nil, 1, 20)
	assert.Equal(t, 0, paginated.Count)
	assert.Empty(t, paginated.Results)
}
