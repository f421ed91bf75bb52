// Package plans содержит статический каталог тарифных планов.
// Каталог задаётся на старте процесса и не изменяется; снимок лимита
// копируется в подписку пользователя при оформлении.
package plans

import (
	"strings"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// FreePlanName — тариф по умолчанию для новых пользователей.
const FreePlanName = "Free"

var catalog = []models.Plan{
	{Name: "Free", Price: 0, PostLimit: 1,
		Features: []string{"1 tweet per month", "Basic features"}},
	{Name: "Bronze", Price: 100, PostLimit: 3,
		Features: []string{"3 tweets per month", "Audio tweets", "Priority support"}},
	{Name: "Silver", Price: 300, PostLimit: 5,
		Features: []string{"5 tweets per month", "Audio tweets", "Priority support", "Analytics"}},
	{Name: "Gold", Price: 1000, Unlimited: true,
		Features: []string{"Unlimited tweets", "Audio tweets", "Priority support", "Analytics", "Verified badge"}},
}

// Lookup ищет тариф по имени без учёта регистра и возвращает каноническую запись.
func Lookup(name string) (models.Plan, bool) {
	for _, p := range catalog {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.Plan{}, false
}

// All возвращает каталог тарифов в порядке возрастания цены.
func All() []models.Plan {
	result := make([]models.Plan, len(catalog))
	copy(result, catalog)
	return result
}
