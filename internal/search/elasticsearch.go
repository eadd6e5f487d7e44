package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"nexticket/internal/models"
)

type Config struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// ElasticsearchClient maintains the ticket index backing the public
// browse/filter surface. Postgres stays authoritative; the index is a
// read model refreshed on every ticket mutation.
type ElasticsearchClient struct {
	client *elasticsearch.Client
	index  string
}

// ticketDoc is the indexed document shape.
type ticketDoc struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	FromLocation       string    `json:"from_location"`
	ToLocation         string    `json:"to_location"`
	TransportType      string    `json:"transport_type"`
	PricePerUnit       int64     `json:"price_per_unit"`
	Quantity           int64     `json:"quantity"`
	Perks              []string  `json:"perks"`
	ImageURL           string    `json:"image_url"`
	VendorEmail        string    `json:"vendor_email"`
	VerificationStatus string    `json:"verification_status"`
	IsAdvertised       bool      `json:"is_advertised"`
	VendorFraud        bool      `json:"vendor_fraud"`
	DepartureDate      string    `json:"departure_date"`
	DepartureTime      string    `json:"departure_time"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewElasticsearchClient(cfg Config) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		index:  cfg.Index,
	}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"title":               map[string]any{"type": "text"},
				"from_location":       map[string]any{"type": "text"},
				"to_location":         map[string]any{"type": "text"},
				"transport_type":      map[string]any{"type": "keyword"},
				"price_per_unit":      map[string]any{"type": "long"},
				"quantity":            map[string]any{"type": "long"},
				"perks":               map[string]any{"type": "keyword"},
				"image_url":           map[string]any{"type": "keyword", "index": false},
				"vendor_email":        map[string]any{"type": "keyword"},
				"verification_status": map[string]any{"type": "keyword"},
				"is_advertised":       map[string]any{"type": "boolean"},
				"vendor_fraud":        map[string]any{"type": "boolean"},
				"departure_date":      map[string]any{"type": "keyword"},
				"departure_time":      map[string]any{"type": "keyword"},
				"created_at":          map[string]any{"type": "date"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index %s: %s", c.index, createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.index)
	return nil
}

// IndexTicket writes or rewrites the ticket's document. The caller supplies
// the vendor's current fraud flag; rewriting with a stale false here would
// undo the suppression applied by MarkVendorFraud.
func (c *ElasticsearchClient) IndexTicket(ctx context.Context, t *models.Ticket, vendorFraud bool) error {
	doc := ticketDoc{
		ID:                 t.ID,
		Title:              t.Title,
		FromLocation:       t.FromLocation,
		ToLocation:         t.ToLocation,
		TransportType:      string(t.TransportType),
		PricePerUnit:       t.PricePerUnit,
		Quantity:           t.Quantity,
		Perks:              t.Perks,
		ImageURL:           t.ImageURL,
		VendorEmail:        t.VendorEmail,
		VerificationStatus: string(t.VerificationStatus),
		IsAdvertised:       t.IsAdvertised,
		VendorFraud:        vendorFraud,
		DepartureDate:      t.DepartureDate,
		DepartureTime:      t.DepartureTime,
		CreatedAt:          t.CreatedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: t.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index ticket %s: %w", t.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index ticket %s: %s", t.ID, res.String())
	}

	return nil
}

func (c *ElasticsearchClient) DeleteTicket(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      c.index,
		DocumentID: id,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %s from index: %w", id, err)
	}
	defer res.Body.Close()

	// 404 here just means the ticket never made it into the index
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete ticket %s from index: %s", id, res.String())
	}

	return nil
}

// MarkVendorFraud flags every document of a suppressed vendor so the
// browse surface stops returning them without reindexing each ticket.
func (c *ElasticsearchClient) MarkVendorFraud(ctx context.Context, vendorEmail string) error {
	query := map[string]any{
		"script": map[string]any{
			"source": "ctx._source.vendor_fraud = true",
			"lang":   "painless",
		},
		"query": map[string]any{
			"term": map[string]any{"vendor_email": vendorEmail},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return err
	}

	refresh := true
	req := esapi.UpdateByQueryRequest{
		Index:   []string{c.index},
		Body:    bytes.NewReader(body),
		Refresh: &refresh,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to flag vendor %s in index: %w", vendorEmail, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to flag vendor %s in index: %s", vendorEmail, res.String())
	}

	return nil
}

// SearchTickets serves the public browse query: full-text over title and
// route, transport-type filter, price or recency sort, pagination. Only
// approved tickets of unflagged vendors are returned.
func (c *ElasticsearchClient) SearchTickets(ctx context.Context, q models.TicketSearchQuery) (*models.TicketSearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	filters := []map[string]any{
		{"term": map[string]any{"verification_status": "approved"}},
		{"term": map[string]any{"vendor_fraud": false}},
	}
	if q.TransportType != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"transport_type": q.TransportType},
		})
	}

	boolQuery := map[string]any{"filter": filters}
	if q.Query != "" {
		boolQuery["must"] = map[string]any{
			"multi_match": map[string]any{
				"query":  q.Query,
				"fields": []string{"title^2", "from_location", "to_location"},
			},
		}
	}

	var sort []map[string]any
	switch q.SortPrice {
	case "asc":
		sort = append(sort, map[string]any{"price_per_unit": map[string]any{"order": "asc"}})
	case "desc":
		sort = append(sort, map[string]any{"price_per_unit": map[string]any{"order": "desc"}})
	default:
		sort = append(sort, map[string]any{"created_at": map[string]any{"order": "desc"}})
	}

	searchBody := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  sort,
		"from":  (q.Page - 1) * q.PageSize,
		"size":  q.PageSize,
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search request failed: %s", res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ticketDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		tickets = append(tickets, hit.Source.toTicket())
	}

	return &models.TicketSearchResult{
		Tickets:  tickets,
		Total:    parsed.Hits.Total.Value,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (d ticketDoc) toTicket() models.Ticket {
	return models.Ticket{
		ID:                 d.ID,
		Title:              d.Title,
		FromLocation:       d.FromLocation,
		ToLocation:         d.ToLocation,
		TransportType:      models.TransportType(d.TransportType),
		PricePerUnit:       d.PricePerUnit,
		Quantity:           d.Quantity,
		Perks:              d.Perks,
		ImageURL:           d.ImageURL,
		VendorEmail:        d.VendorEmail,
		VerificationStatus: models.VerificationStatus(d.VerificationStatus),
		IsAdvertised:       d.IsAdvertised,
		DepartureDate:      d.DepartureDate,
		DepartureTime:      d.DepartureTime,
		CreatedAt:          d.CreatedAt,
	}
}
