package service_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Objecteee/ticket-on-line/internal/model"
	apperrors "github.com/Objecteee/ticket-on-line/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fakeTx 只記錄 commit/rollback，其他方法呼叫會 panic
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	mu  sync.Mutex
	txs []*fakeTx
}

func (d *fakeDB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) last() *fakeTx {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.txs) == 0 {
		return nil
	}
	return d.txs[len(d.txs)-1]
}

// memStore 以記憶體模擬各資料表，行為對齊 pgx repository 的 SQL 語意
type memStore struct {
	mu        sync.Mutex
	nextID    int
	trains    map[int]*model.Train
	stops     []*model.TrainStop
	inventory map[string]*model.TicketInventory
	orders    map[int]*model.Order
	sales     []*model.TicketSaleRecord
	refunds   []*model.RefundRecord
}

func newMemStore() *memStore {
	return &memStore{
		trains:    make(map[int]*model.Train),
		inventory: make(map[string]*model.TicketInventory),
		orders:    make(map[int]*model.Order),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func invKey(key model.InventoryKey) string {
	return fmt.Sprintf("%d|%s|%s", key.TrainID, key.TravelDate.Format(model.DateLayout), key.SeatClass)
}

func (s *memStore) addTrain(t *model.Train) *model.Train {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	s.trains[t.ID] = t
	return t
}

func (s *memStore) addStops(trainID int, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, name := range names {
		s.stops = append(s.stops, &model.TrainStop{
			ID:            s.id(),
			TrainID:       trainID,
			StationName:   name,
			StopOrder:     i + 1,
			ArrivalTime:   fmt.Sprintf("%02d:00:00", 8+i),
			DepartureTime: fmt.Sprintf("%02d:05:00", 8+i),
		})
	}
}

func (s *memStore) salesFor(orderID int) []*model.TicketSaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.TicketSaleRecord
	for _, r := range s.sales {
		if r.OrderID != nil && *r.OrderID == orderID {
			c := *r
			out = append(out, &c)
		}
	}
	return out
}

func (s *memStore) refundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refunds)
}

func (s *memStore) soldSeats(key model.InventoryKey) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory[invKey(key)]
	if !ok {
		return 0, false
	}
	return inv.SoldSeats, true
}

// --- trains ---

type fakeTrainRepo struct{ *memStore }

func (r fakeTrainRepo) Create(ctx context.Context, train *model.Train) (*model.Train, error) {
	return r.addTrain(train), nil
}

func (r fakeTrainRepo) List(ctx context.Context, filter model.TrainFilter) ([]*model.Train, int, error) {
	return nil, 0, nil
}

func (r fakeTrainRepo) FindByID(ctx context.Context, id int) (*model.Train, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trains[id]
	if !ok {
		return nil, apperrors.ErrTrainNotFound
	}
	c := *t
	return &c, nil
}

func (r fakeTrainRepo) FindActiveByIDs(ctx context.Context, ids []int, trainNumber string) ([]*model.Train, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Train
	for _, id := range ids {
		t, ok := r.trains[id]
		if !ok || !t.IsActive() || !strings.Contains(t.TrainNumber, trainNumber) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.Train) int { return strings.Compare(a.DepartureTime, b.DepartureTime) })
	return out, nil
}

func (r fakeTrainRepo) SearchByStations(ctx context.Context, departure, arrival, trainNumber string) ([]*model.Train, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Train
	for _, t := range r.trains {
		if !t.IsActive() ||
			!strings.Contains(t.DepartureStation, departure) ||
			!strings.Contains(t.ArrivalStation, arrival) ||
			!strings.Contains(t.TrainNumber, trainNumber) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.Train) int { return strings.Compare(a.DepartureTime, b.DepartureTime) })
	return out, nil
}

func (r fakeTrainRepo) Update(ctx context.Context, id int, params model.UpdateTrainParams) (*model.Train, error) {
	return r.FindByID(ctx, id)
}

func (r fakeTrainRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trains[id]; !ok {
		return apperrors.ErrTrainNotFound
	}
	for _, inv := range r.inventory {
		if inv.TrainID == id {
			return apperrors.ErrConflict
		}
	}
	for _, o := range r.orders {
		if o.TrainID == id {
			return apperrors.ErrConflict
		}
	}
	for _, s := range r.sales {
		if s.TrainID == id {
			return apperrors.ErrConflict
		}
	}
	delete(r.trains, id)
	return nil
}

// --- stops ---

type fakeStopRepo struct{ *memStore }

func (r fakeStopRepo) ListByTrainID(ctx context.Context, trainID int) ([]*model.TrainStop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TrainStop
	for _, s := range r.stops {
		if s.TrainID == trainID {
			c := *s
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *model.TrainStop) int { return a.StopOrder - b.StopOrder })
	return out, nil
}

func (r fakeStopRepo) FindByStationLike(ctx context.Context, station string) ([]*model.TrainStop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TrainStop
	for _, s := range r.stops {
		if strings.Contains(s.StationName, station) {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r fakeStopRepo) ReplaceForTrain(ctx context.Context, tx pgx.Tx, trainID int, stops []*model.TrainStop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.stops[:0]
	for _, s := range r.stops {
		if s.TrainID != trainID {
			kept = append(kept, s)
		}
	}
	r.stops = append(kept, stops...)
	return nil
}

// --- inventory ---

type fakeInventoryRepo struct{ *memStore }

func (r fakeInventoryRepo) FindByKey(ctx context.Context, key model.InventoryKey) (*model.TicketInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.inventory[invKey(key)]
	if !ok {
		return nil, apperrors.ErrInventoryNotFound
	}
	c := *inv
	return &c, nil
}

func (r fakeInventoryRepo) ListByTrainDate(ctx context.Context, trainID int, travelDate time.Time) ([]*model.TicketInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TicketInventory
	for _, inv := range r.inventory {
		if inv.TrainID == trainID && inv.TravelDate.Equal(travelDate) {
			c := *inv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r fakeInventoryRepo) EnsureRow(ctx context.Context, tx pgx.Tx, key model.InventoryKey, totalSeats int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := invKey(key)
	if _, ok := r.inventory[k]; !ok {
		r.inventory[k] = &model.TicketInventory{
			ID:         r.id(),
			TrainID:    key.TrainID,
			TravelDate: key.TravelDate,
			SeatClass:  key.SeatClass,
			TotalSeats: totalSeats,
		}
	}
	return nil
}

func (r fakeInventoryRepo) IncrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.inventory[invKey(key)]
	if !ok || inv.TotalSeats-inv.SoldSeats-inv.LockedSeats < count {
		return nil, apperrors.ErrInsufficientInventory
	}
	inv.SoldSeats += count
	c := *inv
	return &c, nil
}

func (r fakeInventoryRepo) DecrementSold(ctx context.Context, tx pgx.Tx, key model.InventoryKey, count int) (*model.TicketInventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.inventory[invKey(key)]
	if !ok {
		return nil, apperrors.ErrInventoryNotFound
	}
	inv.SoldSeats = max(0, inv.SoldSeats-count)
	c := *inv
	return &c, nil
}

// --- orders ---

type fakeOrderRepo struct{ *memStore }

func (r fakeOrderRepo) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *order
	c.ID = r.id()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.orders[c.ID] = &c
	out := c
	return &out, nil
}

func (r fakeOrderRepo) FindByID(ctx context.Context, id int) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (r fakeOrderRepo) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, int, error) {
	return nil, 0, nil
}

func (r fakeOrderRepo) SumSoldTickets(ctx context.Context, key model.InventoryKey) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, o := range r.orders {
		if invKey(o.InventoryKey()) == invKey(key) && o.Status.HoldsInventory() {
			sum += o.TicketCount
		}
	}
	return sum, nil
}

func (r fakeOrderRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders), nil
}

func (r fakeOrderRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error) {
	return r.FindByID(ctx, id)
}

func (r fakeOrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.OrderStatus, paymentTime *time.Time) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	o.Status = status
	if paymentTime != nil {
		o.PaymentTime = paymentTime
	}
	o.UpdatedAt = time.Now().UTC()
	c := *o
	return &c, nil
}

// --- sales ---

type fakeSaleRepo struct{ *memStore }

func (r fakeSaleRepo) Create(ctx context.Context, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *record
	c.ID = r.id()
	r.sales = append(r.sales, &c)
	out := c
	return &out, nil
}

func (r fakeSaleRepo) CreateTx(ctx context.Context, tx pgx.Tx, record *model.TicketSaleRecord) (*model.TicketSaleRecord, error) {
	return r.Create(ctx, record)
}

func (r fakeSaleRepo) FindFirstByOrderID(ctx context.Context, orderID int) (*model.TicketSaleRecord, error) {
	if sales := r.salesFor(orderID); len(sales) > 0 {
		return sales[0], nil
	}
	return nil, apperrors.ErrSaleNotFound
}

func (r fakeSaleRepo) List(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, int, error) {
	return nil, 0, nil
}

func (r fakeSaleRepo) ListAll(ctx context.Context, filter model.TicketSaleFilter) ([]*model.TicketSaleRecord, error) {
	return nil, nil
}

func (r fakeSaleRepo) Stats(ctx context.Context, groupBy model.SaleGroupBy, filter model.TicketSaleFilter) ([]*model.SaleStat, error) {
	return nil, nil
}

func (r fakeSaleRepo) SumAmount(ctx context.Context, filter model.TicketSaleFilter) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, s := range r.sales {
		sum = sum.Add(s.ActualAmount)
	}
	return sum, nil
}

// --- refunds ---

type fakeRefundRepo struct{ *memStore }

func (r fakeRefundRepo) List(ctx context.Context, filter model.RefundFilter) ([]*model.RefundRecord, int, error) {
	return nil, 0, nil
}

func (r fakeRefundRepo) Count(ctx context.Context) (int, error) {
	return r.refundCount(), nil
}

func (r fakeRefundRepo) Trend(ctx context.Context, start, end *time.Time) ([]*model.RefundTrendPoint, error) {
	return nil, nil
}

func (r fakeRefundRepo) Create(ctx context.Context, tx pgx.Tx, refund *model.RefundRecord) (*model.RefundRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *refund
	c.ID = r.id()
	c.CreatedAt = time.Now().UTC()
	r.refunds = append(r.refunds, &c)
	out := c
	return &out, nil
}
