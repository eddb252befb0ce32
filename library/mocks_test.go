package library

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// StoreMock is a testify mock of Store, used to drive the storage-failure
// paths that the real SQLite store won't produce on demand.
type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) FindBookByID(id int64) (*Book, error) {
	args := m.Called(id)
	book, _ := args.Get(0).(*Book)
	return book, args.Error(1)
}

func (m *StoreMock) FindBookByISBN(isbn string) (*Book, error) {
	args := m.Called(isbn)
	book, _ := args.Get(0).(*Book)
	return book, args.Error(1)
}

func (m *StoreMock) CreateBook(title, author, isbn string, totalCopies int) (int64, error) {
	args := m.Called(title, author, isbn, totalCopies)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StoreMock) AdjustBookAvailability(id int64, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *StoreMock) ListAllBooks() ([]*Book, error) {
	args := m.Called()
	books, _ := args.Get(0).([]*Book)
	return books, args.Error(1)
}

func (m *StoreMock) SearchBooks(query, field string) ([]*Book, error) {
	args := m.Called(query, field)
	books, _ := args.Get(0).([]*Book)
	return books, args.Error(1)
}

func (m *StoreMock) CreateBorrowRecord(patronID string, bookID int64, borrowDate, dueDate time.Time) (int64, error) {
	args := m.Called(patronID, bookID, borrowDate, dueDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StoreMock) FindActiveBorrowRecord(patronID string, bookID int64) (*BorrowRecord, error) {
	args := m.Called(patronID, bookID)
	record, _ := args.Get(0).(*BorrowRecord)
	return record, args.Error(1)
}

func (m *StoreMock) SetReturnDate(patronID string, bookID int64, when time.Time) error {
	args := m.Called(patronID, bookID, when)
	return args.Error(0)
}

func (m *StoreMock) CountActiveBorrows(patronID string) (int, error) {
	args := m.Called(patronID)
	return args.Int(0), args.Error(1)
}

func (m *StoreMock) ListActiveBorrows(patronID string) ([]*BorrowRecord, error) {
	args := m.Called(patronID)
	records, _ := args.Get(0).([]*BorrowRecord)
	return records, args.Error(1)
}

func (m *StoreMock) ListReturnedHistory(patronID string) ([]*BorrowRecord, error) {
	args := m.Called(patronID)
	records, _ := args.Get(0).([]*BorrowRecord)
	return records, args.Error(1)
}

// GatewayMock is a testify mock of PaymentGateway.
type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) Charge(patronID string, amount decimal.Decimal, description string) (ChargeResult, error) {
	args := m.Called(patronID, amount, description)
	return args.Get(0).(ChargeResult), args.Error(1)
}

func (m *GatewayMock) Refund(transactionID string, amount decimal.Decimal) (RefundResult, error) {
	args := m.Called(transactionID, amount)
	return args.Get(0).(RefundResult), args.Error(1)
}

// amountEqual matches a decimal argument by value rather than representation.
func amountEqual(want string) interface{} {
	target := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(target) })
}

// overdueRecord builds an open loan whose due date lies daysOverdue whole
// days in the past (plus a minute of slack so truncation lands on the day).
func overdueRecord(patronID string, bookID int64, daysOverdue int) *BorrowRecord {
	due := time.Now().Add(-time.Minute).AddDate(0, 0, -daysOverdue)
	return &BorrowRecord{
		PatronID:   patronID,
		BookID:     bookID,
		BorrowDate: due.AddDate(0, 0, -LoanPeriodDays),
		DueDate:    due,
	}
}
