package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending skips to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"processing back to pending", OrderStatusProcessing, OrderStatusPending, false},
		{"pending cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"shipped cancelled", OrderStatusShipped, OrderStatusCancelled, true},
		{"pending completed directly", OrderStatusPending, OrderStatusCompleted, true},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCompleted, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusProcessing, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusCancelled, false},
		{"same status", OrderStatusPending, OrderStatusPending, false},
		{"unknown status", OrderStatus("mystery"), OrderStatusProcessing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCountsAsCompleted(t *testing.T) {
	assert.True(t, OrderStatusCompleted.CountsAsCompleted())
	assert.True(t, OrderStatusDelivered.CountsAsCompleted())
	assert.False(t, OrderStatusShipped.CountsAsCompleted())
	assert.False(t, OrderStatusCancelled.CountsAsCompleted())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("teleported")
	require.Error(t, err)
}

func TestParseProductCategory(t *testing.T) {
	category, err := ParseProductCategory("dairy")
	require.NoError(t, err)
	assert.Equal(t, ProductCategoryDairy, category)

	_, err = ParseProductCategory("gadgets")
	require.Error(t, err)
}

func TestParseApplicationStatus(t *testing.T) {
	status, err := ParseApplicationStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusApproved, status)

	_, err = ParseApplicationStatus("maybe")
	require.Error(t, err)
}
