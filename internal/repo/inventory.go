package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"LabKeeper/internal/model"
)

// Ошибки инвентаря. Слой хендлеров сопоставляет их с HTTP-статусами.
var (
	// ErrItemNotFound — шкаф или позиция с такими идентификаторами не найдены.
	ErrItemNotFound = errors.New("item not found")
	// ErrCupboardNotFound — шкаф с таким идентификатором не найден.
	ErrCupboardNotFound = errors.New("cupboard not found")
	// ErrNotAuthorized — вернуть позицию может только взявший её пользователь или админ.
	ErrNotAuthorized = errors.New("not authorized to return item")
)

// ToggleOutcome — результат одного переключения замка.
type ToggleOutcome struct {
	Action string // model.ActionLocked либо model.ActionUnlocked

	Item model.Item // состояние позиции после переключения
	Prev model.Item // снимок до переключения, для компенсирующего отката

	CupboardID   int
	CupboardName string
}

// Inventory — контракт хранилища инвентаря для слоя сервиса.
type Inventory interface {
	// Cupboards возвращает копию всех шкафов с позициями.
	Cupboards() []model.Cupboard

	// GetItem возвращает копию позиции и имя её шкафа.
	GetItem(cupboardID int, itemID string) (model.Item, string, error)

	// ToggleItem атомарно переключает замок позиции от имени пользователя ntID.
	ToggleItem(cupboardID int, itemID, ntID string, isAdmin bool) (ToggleOutcome, error)

	// RestoreItem откатывает позицию к снимку prev, если её текущее
	// состояние всё ещё совпадает с cur.
	RestoreItem(cupboardID int, itemID string, prev, cur model.Item) error

	// AddItem добавляет запертую позицию в шкаф.
	AddItem(cupboardID int, name string) (model.Item, error)
	// RemoveItem удаляет позицию из шкафа.
	RemoveItem(cupboardID int, itemID string) error
	// AddCupboard добавляет пустой шкаф.
	AddCupboard(name string) (model.Cupboard, error)
	// RemoveCupboard удаляет шкаф вместе с позициями.
	RemoveCupboard(cupboardID int) error
}

// InventoryStore — единственный владелец данных инвентаря: зеркало в памяти
// плюс JSON-файл на диске. Все операции чтения-изменения-записи
// сериализуются одним мьютексом, наружу отдаются только копии.
type InventoryStore struct {
	mu        sync.Mutex
	path      string
	cupboards []model.Cupboard
}

var _ Inventory = (*InventoryStore)(nil)

// inventoryFile — формат JSON-файла данных.
type inventoryFile struct {
	Cupboards []model.Cupboard `json:"cupboards"`
}

// NewInventoryStore загружает инвентарь из файла. Отсутствующий файл
// создаётся со стартовым набором шкафов.
func NewInventoryStore(path string) (*InventoryStore, error) {
	s := &InventoryStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *InventoryStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cupboards = defaultCupboards()
			return s.save()
		}
		return fmt.Errorf("read inventory file: %w", err)
	}
	var f inventoryFile
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse inventory file: %w", err)
	}
	s.cupboards = f.Cupboards
	return nil
}

// save пишет данные во временный файл с последующим переименованием,
// чтобы при сбое записи на диске не оставался недописанный файл.
// Вызывается только под s.mu.
func (s *InventoryStore) save() error {
	b, err := json.MarshalIndent(inventoryFile{Cupboards: s.cupboards}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "inventory-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write inventory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close inventory file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace inventory file: %w", err)
	}
	return nil
}

func (s *InventoryStore) Cupboards() []model.Cupboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Cupboard, len(s.cupboards))
	for i, c := range s.cupboards {
		out[i] = c
		out[i].Items = append([]model.Item(nil), c.Items...)
	}
	return out
}

func (s *InventoryStore) GetItem(cupboardID int, itemID string) (model.Item, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, it := s.find(cupboardID, itemID)
	if it == nil {
		return model.Item{}, "", ErrItemNotFound
	}
	return *it, c.Name, nil
}

// ToggleItem выполняет проверку, переворот замка и запись файла в одной
// критической секции. Запертая позиция выдаётся вызывающему; отпертую
// может вернуть только взявший её пользователь или админ. При отказе
// записи состояние в памяти откатывается, частичный результат снаружи
// не виден.
func (s *InventoryStore) ToggleItem(cupboardID int, itemID, ntID string, isAdmin bool) (ToggleOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, it := s.find(cupboardID, itemID)
	if it == nil {
		return ToggleOutcome{}, ErrItemNotFound
	}

	prev := *it
	if it.IsLocked {
		// выдача: снимаем замок и записываем берущего
		now := time.Now().UTC()
		it.IsLocked = false
		it.BorrowedBy = &ntID
		it.BorrowedAt = &now
	} else {
		if !isAdmin && (it.BorrowedBy == nil || *it.BorrowedBy != ntID) {
			return ToggleOutcome{}, ErrNotAuthorized
		}
		// возврат: запираем и очищаем сведения о выдаче
		it.IsLocked = true
		it.BorrowedBy = nil
		it.BorrowedAt = nil
	}

	if err := s.save(); err != nil {
		*it = prev
		return ToggleOutcome{}, fmt.Errorf("persist inventory: %w", err)
	}

	action := model.ActionUnlocked
	if it.IsLocked {
		action = model.ActionLocked
	}
	return ToggleOutcome{
		Action:       action,
		Item:         *it,
		Prev:         prev,
		CupboardID:   c.ID,
		CupboardName: c.Name,
	}, nil
}

// RestoreItem — компенсация для переключения, журнальная запись которого
// не записалась. Откат выполняется только если позиция всё ещё в
// состоянии cur: более поздние чужие переключения не затираются.
func (s *InventoryStore) RestoreItem(cupboardID int, itemID string, prev, cur model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, it := s.find(cupboardID, itemID)
	if it == nil {
		return ErrItemNotFound
	}
	if it.IsLocked != cur.IsLocked {
		// состояние уже изменено другой операцией
		return nil
	}
	saved := *it
	*it = prev
	if err := s.save(); err != nil {
		*it = saved
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}

// AddItem добавляет запертую позицию в шкаф. Идентификатор строится по
// шаблону C<шкаф>_<номер> с первым свободным номером.
func (s *InventoryStore) AddItem(cupboardID int, name string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findCupboard(cupboardID)
	if c == nil {
		return model.Item{}, ErrCupboardNotFound
	}

	existing := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		existing[it.ID] = true
	}
	seq := 1
	for existing[itemID(cupboardID, seq)] {
		seq++
	}

	item := model.Item{ID: itemID(cupboardID, seq), Name: name, IsLocked: true}
	c.Items = append(c.Items, item)
	if err := s.save(); err != nil {
		c.Items = c.Items[:len(c.Items)-1]
		return model.Item{}, fmt.Errorf("persist inventory: %w", err)
	}
	return item, nil
}

// RemoveItem удаляет позицию из шкафа. Отсутствующая позиция в
// существующем шкафу ошибкой не считается.
func (s *InventoryStore) RemoveItem(cupboardID int, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findCupboard(cupboardID)
	if c == nil {
		return ErrCupboardNotFound
	}

	prev := c.Items
	items := make([]model.Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	c.Items = items
	if err := s.save(); err != nil {
		c.Items = prev
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}

// AddCupboard добавляет пустой шкаф с идентификатором max+1.
func (s *InventoryStore) AddCupboard(name string) (model.Cupboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, c := range s.cupboards {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	cupboard := model.Cupboard{ID: maxID + 1, Name: name, Items: []model.Item{}}
	s.cupboards = append(s.cupboards, cupboard)
	if err := s.save(); err != nil {
		s.cupboards = s.cupboards[:len(s.cupboards)-1]
		return model.Cupboard{}, fmt.Errorf("persist inventory: %w", err)
	}
	return cupboard, nil
}

// RemoveCupboard удаляет шкаф вместе с позициями. Отсутствующий шкаф
// ошибкой не считается.
func (s *InventoryStore) RemoveCupboard(cupboardID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cupboards
	cupboards := make([]model.Cupboard, 0, len(s.cupboards))
	for _, c := range s.cupboards {
		if c.ID != cupboardID {
			cupboards = append(cupboards, c)
		}
	}
	s.cupboards = cupboards
	if err := s.save(); err != nil {
		s.cupboards = prev
		return fmt.Errorf("persist inventory: %w", err)
	}
	return nil
}

func (s *InventoryStore) findCupboard(id int) *model.Cupboard {
	for i := range s.cupboards {
		if s.cupboards[i].ID == id {
			return &s.cupboards[i]
		}
	}
	return nil
}

func (s *InventoryStore) find(cupboardID int, id string) (*model.Cupboard, *model.Item) {
	c := s.findCupboard(cupboardID)
	if c == nil {
		return nil, nil
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			return c, &c.Items[i]
		}
	}
	return nil, nil
}

func itemID(cupboardID, seq int) string {
	return fmt.Sprintf("C%d_%03d", cupboardID, seq)
}

func seedItems(cupboardID int, names ...string) []model.Item {
	items := make([]model.Item, 0, len(names))
	for i, name := range names {
		items = append(items, model.Item{ID: itemID(cupboardID, i+1), Name: name, IsLocked: true})
	}
	return items
}

// defaultCupboards — стартовый набор данных для нового файла инвентаря.
func defaultCupboards() []model.Cupboard {
	return []model.Cupboard{
		{ID: 1, Name: "Cupboard 1 - Measurement Equipment", Items: seedItems(1,
			"Digital Oscilloscope 100MHz", "Digital Multimeter", "Function Generator", "Logic Analyzer")},
		{ID: 2, Name: "Cupboard 2 - Power Supplies", Items: seedItems(2,
			"DC Power Supply 30V/5A", "Variable Power Supply", "Battery Charger")},
		{ID: 3, Name: "Cupboard 3 - Development Boards", Items: seedItems(3,
			"Arduino Mega", "Raspberry Pi 4", "STM32 Nucleo Board", "ESP32 Dev Kit")},
		{ID: 4, Name: "Cupboard 4 - Networking Equipment", Items: seedItems(4,
			"Ethernet Switch 8-Port", "Wi-Fi Router", "Network Cable Tester")},
		{ID: 5, Name: "Cupboard 5 - Testing Tools", Items: seedItems(5,
			"JTAG Debugger", "USB Protocol Analyzer", "CAN Bus Analyzer", "Spectrum Analyzer")},
		{ID: 6, Name: "Cupboard 6 - Cables & Connectors", Items: seedItems(6,
			"USB-A to USB-B Cable Set", "HDMI Cable Set", "Jumper Wire Kit", "BNC Cable Set")},
		{ID: 7, Name: "Cupboard 7 - Safety Equipment", Items: seedItems(7,
			"ESD Wrist Strap", "Safety Goggles", "Anti-Static Mat")},
		{ID: 8, Name: "Cupboard 8 - Hand Tools", Items: seedItems(8,
			"Soldering Station", "Precision Screwdriver Set", "Wire Stripper", "Heat Gun")},
		{ID: 9, Name: "Cupboard 9 - Miscellaneous", Items: seedItems(9,
			"Label Printer", "USB Hub 7-Port", "SD Card Reader")},
	}
}
