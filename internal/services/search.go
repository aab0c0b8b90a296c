package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

const (
	productIndex = "products"
	SearchLimit  = 10
)

// SearchIndex maintient l'index Elasticsearch des produits.
// Avec un client nil, la recherche passe par SQL.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client) *SearchIndex {
	return &SearchIndex{client: client, index: productIndex}
}

func (s *SearchIndex) Enabled() bool {
	return s != nil && s.client != nil
}

type productDocument struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BrandID     int64  `json:"brand_id"`
	CategoryID  int64  `json:"category_id"`
}

// IndexProduct (ré)indexe un produit. Les erreurs sont seulement journalisées.
func (s *SearchIndex) IndexProduct(ctx context.Context, p models.Product) {
	if !s.Enabled() {
		return
	}
	data, err := json.Marshal(productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
	})
	if err != nil {
		return
	}
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	}
}

func (s *SearchIndex) DeleteProduct(ctx context.Context, id int64) {
	if !s.Enabled() {
		return
	}
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour le produit %d: %s", id, res.String())
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source productDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchProductIDs interroge Elasticsearch sur le nom et la description.
func (s *SearchIndex) SearchProductIDs(ctx context.Context, query string, limit int) ([]int64, error) {
	if !s.Enabled() {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{Index: []string{s.index}, Body: &buf}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}
	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

// SearchProducts cherche par nom via Elasticsearch, avec repli SQL si l'index
// est indisponible ou ne renvoie rien.
func (s *SearchIndex) SearchProducts(ctx context.Context, q sqlx.ExtContext, name string) ([]models.Product, error) {
	if s.Enabled() {
		ids, err := s.SearchProductIDs(ctx, name, SearchLimit)
		if err != nil {
			log.Printf("⚠️ Recherche Elastic indisponible, repli SQL: %v", err)
		} else if len(ids) > 0 {
			products, err := database.ProductsByIDs(ctx, q, ids)
			if err != nil {
				return nil, err
			}
			return orderByIDs(products, ids), nil
		}
	}
	return database.SearchProductsByName(ctx, q, name, SearchLimit)
}

// orderByIDs remet les produits dans l'ordre de pertinence renvoyé par l'index.
func orderByIDs(products []models.Product, ids []int64) []models.Product {
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
