package reading

import "context"

type StubRepo struct {
	data map[string]Item
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Item{}}
}

func (s *StubRepo) Store(ctx context.Context, userId int, item Item) error {
	s.data[item.ID] = item
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Item, error) {
	items := make([]Item, 0, len(s.data))
	for _, item := range s.data {
		items = append(items, item)
	}
	return items, nil
}

func (s *StubRepo) Get(ctx context.Context, userId int, id string) (Item, error) {
	item, ok := s.data[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

func (s *StubRepo) Update(ctx context.Context, userId int, item Item) (bool, error) {
	if _, ok := s.data[item.ID]; !ok {
		return false, nil
	}
	s.data[item.ID] = item
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) Cleanup() {
	s.data = map[string]Item{}
}
