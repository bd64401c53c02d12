package model

import "time"

// Cupboard — лабораторный шкаф с набором учётных позиций.
// Порядок позиций в срезе соответствует порядку в файле данных.
type Cupboard struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item — учётная позиция инвентаря. IsLocked=true означает, что позиция
// лежит в шкафу; снятие блокировки трактуется как выдача на руки.
type Item struct {
	ID   string `json:"id"` // вида C<шкаф>_<номер>, например C1_003
	Name string `json:"name"`

	IsLocked   bool       `json:"is_locked"`
	BorrowedBy *string    `json:"borrowed_by"` // NT ID взявшего, nil для позиций в шкафу
	BorrowedAt *time.Time `json:"borrowed_at"`
}
