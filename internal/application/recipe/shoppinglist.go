package recipe

import (
	"fmt"
	"strings"

	"github.com/foodgram/backend/internal/ports/outbound"
)

const (
	shoppingListHeader = "SHOPPING LIST:"
	shoppingListFooter = "FOODGRAM"
)

// RenderShoppingList formats aggregated cart lines as the plain-text
// report served for download.
func RenderShoppingList(items []outbound.ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("• %s (%s) -- %d", it.Name, it.MeasurementUnit, it.Amount))
	}
	return shoppingListHeader + "\n\n" + strings.Join(lines, "\n") + "\n\n" + shoppingListFooter
}
