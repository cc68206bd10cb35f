package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// OrdersQuery narrows the /orders listing server-side. Local filtering on
// top of the result set is the view layer's job.
type OrdersQuery struct {
	Status    string
	Marketing string
	Query     string
	Limit     int
	Offset    int
}

func (q OrdersQuery) encode() string {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Marketing != "" {
		params.Set("marketing", q.Marketing)
	}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 500
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	return params.Encode()
}

// Orders lists orders.
func (c *Client) Orders(ctx context.Context, q OrdersQuery) ([]Record, error) {
	var out struct {
		Rows []Record `json:"rows"`
	}
	if err := c.Get(ctx, "/orders?"+q.encode(), &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// Order loads a single order by number.
func (c *Client) Order(ctx context.Context, n string) (Record, error) {
	var out struct {
		Row Record `json:"row"`
	}
	if err := c.Get(ctx, "/orders/"+url.PathEscape(n), &out); err != nil {
		return nil, err
	}
	return out.Row, nil
}

// MailResult mirrors the backend's notification report after a save.
type MailResult struct {
	Sent      bool   `json:"sent"`
	Attempted bool   `json:"attempted"`
	To        string `json:"to"`
	Reason    string `json:"reason"`
}

// SaveResult is the answer to a create or update.
type SaveResult struct {
	N    string      `json:"n"`
	Mail *MailResult `json:"mail"`
}

// CreateOrder creates a new order from the given field values.
func (c *Client) CreateOrder(ctx context.Context, fields map[string]string) (*SaveResult, error) {
	var out SaveResult
	if err := c.Post(ctx, "/orders", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder writes only the provided (changed) fields of order n. Unsent
// columns keep their server-side value.
func (c *Client) UpdateOrder(ctx context.Context, n string, fields map[string]string) (*SaveResult, error) {
	var out SaveResult
	if err := c.Put(ctx, "/orders/"+url.PathEscape(n), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats are the dashboard counters.
type Stats struct {
	EnCours int    `json:"commandes_en_cours"`
	EnStock int    `json:"commandes_en_stock"`
	Livrees int    `json:"commandes_livrees"`
	CAMois  string `json:"-"`
}

// Stats fetches the dashboard counters. CA may come back as a number or a
// formatted string depending on the backend version.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out struct {
		Stats struct {
			EnCours int `json:"commandes_en_cours"`
			EnStock int `json:"commandes_en_stock"`
			Livrees int `json:"commandes_livrees"`
			CAMois  any `json:"ca_mois"`
		} `json:"stats"`
	}
	if err := c.Get(ctx, "/orders/stats", &out); err != nil {
		return nil, err
	}
	return &Stats{
		EnCours: out.Stats.EnCours,
		EnStock: out.Stats.EnStock,
		Livrees: out.Stats.Livrees,
		CAMois:  flatten(out.Stats.CAMois),
	}, nil
}

// EvolutionPoint is one month of the modules-sold series.
type EvolutionPoint struct {
	Label   string  `json:"label"`
	Month   string  `json:"month"`
	Modules float64 `json:"modules"`
}

// Name returns the display label for the point.
func (p EvolutionPoint) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Month
}

// ModulesEvolution fetches the modules-sold-per-month series.
func (c *Client) ModulesEvolution(ctx context.Context) ([]EvolutionPoint, error) {
	var out struct {
		Items []EvolutionPoint `json:"items"`
	}
	if err := c.Get(ctx, "/orders/modules-evolution", &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Clients lists client records, optionally narrowed by a search term.
func (c *Client) Clients(ctx context.Context, q string, limit, offset int) ([]Record, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	if limit <= 0 {
		limit = 500
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	var out struct {
		Rows []Record `json:"rows"`
	}
	if err := c.Get(ctx, "/clients?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// CheckClient reports whether a client with the given name already exists.
// Backend versions answer this route with several shapes; all are accepted.
func (c *Client) CheckClient(ctx context.Context, nom string) (bool, error) {
	var out map[string]any
	if err := c.Get(ctx, "/clients/check?nom="+url.QueryEscape(nom), &out); err != nil {
		return false, err
	}
	if b, ok := out["exists"].(bool); ok && b {
		return true, nil
	}
	if b, ok := out["found"].(bool); ok && b {
		return true, nil
	}
	if n, ok := out["count"].(float64); ok && n > 0 {
		return true, nil
	}
	return false, nil
}

// ReferenceValues fetches one reference column's raw values.
func (c *Client) ReferenceValues(ctx context.Context, column string) ([]string, error) {
	var out struct {
		Values []string `json:"values"`
	}
	if err := c.Get(ctx, "/donnees?nom_colonne="+url.QueryEscape(column), &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// ReferenceAll fetches every reference column in one round-trip.
func (c *Client) ReferenceAll(ctx context.Context) (map[string][]string, error) {
	var out struct {
		Values map[string][]string `json:"values"`
	}
	if err := c.Get(ctx, "/donnees/all", &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// ReferenceCols fetches the names of the reference columns that exist.
func (c *Client) ReferenceCols(ctx context.Context) ([]string, error) {
	var out struct {
		Cols []string `json:"cols"`
	}
	if err := c.Get(ctx, "/donnees/cols", &out); err != nil {
		return nil, err
	}
	return out.Cols, nil
}

// StampStatus records the timestamp for a status transition of order n.
// action is one of production, stock, livraison.
func (c *Client) StampStatus(ctx context.Context, n, action, dateLivraison string) error {
	body := map[string]string{
		"action":         action,
		"date_livraison": dateLivraison,
	}
	return c.Post(ctx, fmt.Sprintf("/orders/%s/status-stamp", url.PathEscape(n)), body, nil)
}
