package models

// Plan описывает тарифный план из статического каталога.
// Цена хранится в минимальных единицах валюты (копейки/центы).
// Для безлимитного тарифа Unlimited = true, поле PostLimit при этом не используется.
type Plan struct {
	Name      string   `json:"name"`       // Каноническое имя тарифа
	Price     int      `json:"price"`      // Цена за месяц в минимальных единицах
	PostLimit int      `json:"post_limit"` // Количество постов за период
	Unlimited bool     `json:"unlimited"`  // Признак безлимитного тарифа
	Features  []string `json:"features"`   // Список возможностей тарифа
}
