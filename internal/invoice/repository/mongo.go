package repository

import (
	"context"
	"errors"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepo struct {
	db *mongo.Database
}

// NewMongo returns the document-store adapter for the invoice
// repository. Multi-record writes run inside driver sessions, so the
// adapter requires a replica-set deployment.
func NewMongo(db *mongo.Database) domain.Repository {
	return &mongoRepo{db: db}
}

func (r *mongoRepo) invoices() *mongo.Collection { return r.db.Collection("invoices") }
func (r *mongoRepo) items() *mongo.Collection    { return r.db.Collection("invoice_items") }
func (r *mongoRepo) clients() *mongo.Collection  { return r.db.Collection("clients") }

func (r *mongoRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *mongoRepo) Create(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.invoices().InsertOne(sc, invoice); err != nil {
			return err
		}
		docs := make([]any, 0, len(items))
		for i := range items {
			docs = append(docs, items[i])
		}
		_, err := r.items().InsertMany(sc, docs)
		return err
	})
}

func (r *mongoRepo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.invoices().FindOne(ctx, bson.M{"_id": id, "user_id": tenantID}).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *mongoRepo) Details(ctx context.Context, tenantID, id snowflake.ID) (*domain.InvoiceWithDetails, error) {
	invoice, err := r.FindByID(ctx, tenantID, id)
	if err != nil || invoice == nil {
		return nil, err
	}

	details := domain.InvoiceWithDetails{Invoice: *invoice}

	err = r.clients().
		FindOne(ctx, bson.M{"_id": invoice.ClientID, "user_id": tenantID}).
		Decode(&details.Client)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	cursor, err := r.items().Find(ctx, bson.M{"invoice_id": id},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &details.Items); err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *mongoRepo) List(ctx context.Context, tenantID snowflake.ID, filter domain.ListFilter) ([]domain.InvoiceWithDetails, error) {
	match := bson.M{"user_id": tenantID}
	if filter.Status != "" && filter.Status != "all" {
		match["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts = opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.invoices().Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	var invoices []domain.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return []domain.InvoiceWithDetails{}, nil
	}

	invoiceIDs := make([]snowflake.ID, 0, len(invoices))
	clientIDs := make([]snowflake.ID, 0, len(invoices))
	for _, invoice := range invoices {
		invoiceIDs = append(invoiceIDs, invoice.ID)
		clientIDs = append(clientIDs, invoice.ClientID)
	}

	clientCursor, err := r.clients().Find(ctx, bson.M{"user_id": tenantID, "_id": bson.M{"$in": clientIDs}})
	if err != nil {
		return nil, err
	}
	var clients []clientdomain.Client
	if err := clientCursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	clientByID := make(map[snowflake.ID]clientdomain.Client, len(clients))
	for _, client := range clients {
		clientByID[client.ID] = client
	}

	itemCursor, err := r.items().Find(ctx, bson.M{"invoice_id": bson.M{"$in": invoiceIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var items []domain.InvoiceItem
	if err := itemCursor.All(ctx, &items); err != nil {
		return nil, err
	}
	itemsByInvoice := make(map[snowflake.ID][]domain.InvoiceItem, len(invoices))
	for _, item := range items {
		itemsByInvoice[item.InvoiceID] = append(itemsByInvoice[item.InvoiceID], item)
	}

	result := make([]domain.InvoiceWithDetails, 0, len(invoices))
	for _, invoice := range invoices {
		result = append(result, domain.InvoiceWithDetails{
			Invoice: invoice,
			Client:  clientByID[invoice.ClientID],
			Items:   itemsByInvoice[invoice.ID],
		})
	}
	return result, nil
}

func (r *mongoRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	result, err := r.invoices().UpdateOne(ctx,
		bson.M{"_id": invoice.ID, "user_id": invoice.UserID, "version": invoice.Version},
		bson.M{"$set": mongoUpdateFields(invoice), "$inc": bson.M{"version": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrConflict
	}
	invoice.Version++
	return nil
}

func (r *mongoRepo) ReplaceItems(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := r.invoices().UpdateOne(sc,
			bson.M{"_id": invoice.ID, "user_id": invoice.UserID, "version": invoice.Version},
			bson.M{"$set": mongoUpdateFields(invoice), "$inc": bson.M{"version": 1}})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return domain.ErrConflict
		}
		if _, err := r.items().DeleteMany(sc, bson.M{"invoice_id": invoice.ID}); err != nil {
			return err
		}
		docs := make([]any, 0, len(items))
		for i := range items {
			docs = append(docs, items[i])
		}
		_, err = r.items().InsertMany(sc, docs)
		return err
	})
	if err != nil {
		return err
	}
	invoice.Version++
	return nil
}

func (r *mongoRepo) Delete(ctx context.Context, tenantID, id snowflake.ID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := r.invoices().DeleteOne(sc, bson.M{"_id": id, "user_id": tenantID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		_, err = r.items().DeleteMany(sc, bson.M{"invoice_id": id})
		return err
	})
}

func mongoUpdateFields(invoice *domain.Invoice) bson.M {
	return bson.M{
		"client_id":      invoice.ClientID,
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
		"currency":       invoice.Currency,
		"subtotal":       invoice.Subtotal,
		"tax_rate":       invoice.TaxRate,
		"tax_amount":     invoice.TaxAmount,
		"total":          invoice.Total,
		"notes":          invoice.Notes,
		"invoice_date":   invoice.InvoiceDate,
		"due_date":       invoice.DueDate,
		"paid_at":        invoice.PaidAt,
		"updated_at":     invoice.UpdatedAt,
	}
}
