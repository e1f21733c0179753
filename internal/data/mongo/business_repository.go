// Package mongo provides the MongoDB implementation of the business
// transaction repository. Business transactions are standalone documents
// with no cross-record invariants, so a document store fits them well.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/debtwise-ledger/internal/domain/business"
)

const (
	// BusinessCollectionName is the name of the business transactions collection
	BusinessCollectionName = "business_transactions"
)

// BusinessRepository implements the business.Repository interface for MongoDB
type BusinessRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewBusinessRepository creates a new MongoDB business transaction repository
func NewBusinessRepository(logger *slog.Logger, db *mongo.Database) business.Repository {
	return &BusinessRepository{
		db:     db,
		logger: logger,
	}
}

// businessDoc is the stored shape; decimals are serialized as fixed-point
// strings so round-tripping never loses precision.
type businessDoc struct {
	ID                   string     `bson:"_id"`
	CounterpartyName     string     `bson:"counterparty_name"`
	CounterpartyTaxID    string     `bson:"counterparty_tax_id"`
	CounterpartyCountry  string     `bson:"counterparty_country"`
	Description          string     `bson:"description,omitempty"`
	Type                 string     `bson:"type"`
	NetAmount            string     `bson:"net_amount"`
	VatAmount            string     `bson:"vat_amount"`
	VatRate              string     `bson:"vat_rate"`
	VatExemption         bool       `bson:"vat_exemption"`
	WithholdingTaxAmount string     `bson:"withholding_tax_amount"`
	GrossAmount          string     `bson:"gross_amount"`
	Currency             string     `bson:"currency"`
	PaymentMethod        string     `bson:"payment_method"`
	InvoiceNumber        string     `bson:"invoice_number,omitempty"`
	Date                 time.Time  `bson:"date"`
	CreatedAt            time.Time  `bson:"created_at"`
	UpdatedAt            time.Time  `bson:"updated_at"`
	DeletedAt            *time.Time `bson:"deleted_at,omitempty"`
}

// Create stores a new business transaction
func (r *BusinessRepository) Create(ctx context.Context, tx *business.Transaction) error {
	collection := r.db.Collection(BusinessCollectionName)

	_, err := collection.InsertOne(ctx, toDoc(tx))
	if err != nil {
		r.logger.Error("Failed to create business transaction", "id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to create business transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a business transaction by its ID.
// Returns ErrTransactionNotFound if no live document exists.
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*business.Transaction, error) {
	collection := r.db.Collection(BusinessCollectionName)

	filter := bson.M{"_id": id.String(), "deleted_at": nil}
	var doc businessDoc
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, business.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get business transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get business transaction: %w", err)
	}

	return fromDoc(&doc)
}

// List retrieves live business transactions, newest first
func (r *BusinessRepository) List(ctx context.Context, limit, offset int) ([]*business.Transaction, error) {
	collection := r.db.Collection(BusinessCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		r.logger.Error("Failed to list business transactions", "error", err)
		return nil, fmt.Errorf("failed to list business transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []businessDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode business transactions", "error", err)
		return nil, fmt.Errorf("failed to decode business transactions: %w", err)
	}

	transactions := make([]*business.Transaction, 0, len(docs))
	for i := range docs {
		tx, err := fromDoc(&docs[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// Count returns the number of live business transactions
func (r *BusinessRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(BusinessCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		r.logger.Error("Failed to count business transactions", "error", err)
		return 0, fmt.Errorf("failed to count business transactions: %w", err)
	}
	return count, nil
}

// Update replaces the stored document with the normalized transaction
func (r *BusinessRepository) Update(ctx context.Context, tx *business.Transaction) error {
	collection := r.db.Collection(BusinessCollectionName)

	filter := bson.M{"_id": tx.ID.String(), "deleted_at": nil}
	result, err := collection.ReplaceOne(ctx, filter, toDoc(tx))
	if err != nil {
		r.logger.Error("Failed to update business transaction", "id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to update business transaction: %w", err)
	}

	if result.MatchedCount == 0 {
		return business.ErrTransactionNotFound{TransactionID: tx.ID}
	}
	return nil
}

// SoftDelete marks a business transaction as deleted
func (r *BusinessRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	collection := r.db.Collection(BusinessCollectionName)

	filter := bson.M{"_id": id.String(), "deleted_at": nil}
	update := bson.M{"$set": bson.M{"deleted_at": time.Now()}}
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to delete business transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete business transaction: %w", err)
	}

	if result.MatchedCount == 0 {
		return business.ErrTransactionNotFound{TransactionID: id}
	}
	return nil
}

func toDoc(tx *business.Transaction) *businessDoc {
	return &businessDoc{
		ID:                   tx.ID.String(),
		CounterpartyName:     tx.CounterpartyName,
		CounterpartyTaxID:    tx.CounterpartyTaxID,
		CounterpartyCountry:  tx.CounterpartyCountry,
		Description:          tx.Description,
		Type:                 string(tx.Type),
		NetAmount:            tx.NetAmount.StringFixed(2),
		VatAmount:            tx.VatAmount.StringFixed(2),
		VatRate:              tx.VatRate.String(),
		VatExemption:         tx.VatExemption,
		WithholdingTaxAmount: tx.WithholdingTaxAmount.StringFixed(2),
		GrossAmount:          tx.GrossAmount.StringFixed(2),
		Currency:             tx.Currency,
		PaymentMethod:        tx.PaymentMethod,
		InvoiceNumber:        tx.InvoiceNumber,
		Date:                 tx.Date,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

func fromDoc(doc *businessDoc) (*business.Transaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse business transaction id %q: %w", doc.ID, err)
	}

	tx := &business.Transaction{
		ID:                  id,
		CounterpartyName:    doc.CounterpartyName,
		CounterpartyTaxID:   doc.CounterpartyTaxID,
		CounterpartyCountry: doc.CounterpartyCountry,
		Description:         doc.Description,
		Type:                business.Type(doc.Type),
		VatExemption:        doc.VatExemption,
		Currency:            doc.Currency,
		PaymentMethod:       doc.PaymentMethod,
		InvoiceNumber:       doc.InvoiceNumber,
		Date:                doc.Date,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}

	for _, field := range []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{doc.NetAmount, &tx.NetAmount},
		{doc.VatAmount, &tx.VatAmount},
		{doc.VatRate, &tx.VatRate},
		{doc.WithholdingTaxAmount, &tx.WithholdingTaxAmount},
		{doc.GrossAmount, &tx.GrossAmount},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse decimal %q in business transaction %s: %w", field.raw, doc.ID, err)
		}
		*field.dest = value
	}

	return tx, nil
}
