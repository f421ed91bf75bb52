package models

import "time"

// Post представляет запись пользователя. Вложения хранятся в виде ссылок,
// загрузкой медиа занимается внешний сервис.
type Post struct {
	ID        string    // Уникальный идентификатор поста
	UserUID   string    // Идентификатор автора
	Text      string    // Текст поста
	Img       string    // Ссылка на изображение (опционально)
	Audio     string    // Ссылка на аудио (опционально)
	Video     string    // Ссылка на видео (опционально)
	CreatedAt time.Time // Время создания
}

// DummyPost используется для приёма данных поста из JSON-запроса
// до конвертации в Post.
type DummyPost struct {
	Text  string `json:"text" validate:"required,max=280"` // Текст поста
	Img   string `json:"img,omitempty"`                    // Ссылка на изображение
	Audio string `json:"audio,omitempty"`                  // Ссылка на аудио
	Video string `json:"video,omitempty"`                  // Ссылка на видео
}
