package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"media/config"
	"media/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

var es *elasticsearch.Client

func ConnectElastic() {
	cfg := elasticsearch.Config{
		Addresses: []string{
			config.GetEnv("ELASTIC_ADDR"),
		},
		Username: config.GetEnv("ELASTIC_USER"),
		Password: config.GetEnv("ELASTIC_PASSWORD"),
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}
	var err error
	es, err = elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatal("❌ Không thể kết nối Elasticsearch:", err)
	}

	log.Println("🟢 Kết nối Elasticsearch thành công!")
}

func GetAllMediaForIndexing() ([]map[string]interface{}, error) {
	var assets []models.MediaAsset

	err := config.DB.Preload("Owner").Find(&assets).Error
	if err != nil {
		return nil, err
	}

	var formattedAssets []map[string]interface{}

	for _, asset := range assets {
		owner := map[string]interface{}{
			"id":    asset.Owner.ID,
			"name":  asset.Owner.Name,
			"email": asset.Owner.Email,
		}

		assetData := map[string]interface{}{
			"id":          asset.ID,
			"title":       asset.Title,
			"description": asset.Description,
			"mediaType":   asset.MediaType,
			"tags":        []string(asset.Tags),
			"priceCents":  asset.PriceCents,
			"status":      asset.Status,
			"url":         asset.URL,
			"ownerId":     asset.OwnerID,
			"owner":       owner,
		}

		formattedAssets = append(formattedAssets, assetData)
	}

	return formattedAssets, nil
}

func IndexMediaToES() error {
	assets, err := GetAllMediaForIndexing()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, asset := range assets {
		id := fmt.Sprintf("%v", asset["id"])

		// Ghi metadata Bulk
		meta := fmt.Sprintf(`{ "index" : { "_index" : "media_assets", "_id" : "%s" } }`, id)
		buf.WriteString(meta + "\n")

		assetJSON, err := json.Marshal(asset)
		if err != nil {
			log.Printf("❌ Lỗi khi convert media asset thành JSON: %v\n", err)
			continue
		}
		buf.WriteString(string(assetJSON) + "\n")
	}

	return sendBulkRequest(buf.String())
}

// Gửi request bulk đến Elasticsearch
func sendBulkRequest(data string) error {
	res, err := es.Bulk(bytes.NewReader([]byte(data)), es.Bulk.WithContext(context.Background()))
	if err != nil {
		return fmt.Errorf("❌ Lỗi khi gửi Bulk API: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var bulkRes map[string]interface{}
	if err := json.Unmarshal(body, &bulkRes); err != nil {
		return fmt.Errorf("❌ Lỗi khi parse phản hồi: %w", err)
	}

	if items, ok := bulkRes["items"].([]interface{}); ok {
		for _, item := range items {
			indexOp := item.(map[string]interface{})["index"].(map[string]interface{})
			if errorInfo, exists := indexOp["error"]; exists {
				log.Printf("❌ Lỗi khi index document ID %v: %+v\n", indexOp["_id"], errorInfo)
			}
		}
	}

	if res.IsError() {
		return fmt.Errorf("❌ Elasticsearch trả về lỗi tổng thể: %s", string(body))
	}

	log.Println("✅ Dữ liệu media đã được index thành công vào Elasticsearch!")
	return nil
}

// Xóa index trong Elasticsearch
func DeleteIndex(indexName string) error {
	res, err := es.Indices.Delete([]string{indexName}, es.Indices.Delete.WithContext(context.Background()))
	if err != nil {
		return fmt.Errorf("❌ Lỗi khi xóa index %s: %w", indexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("⚠️ Elasticsearch trả về lỗi khi xóa index %s: %s", indexName, res.Status())
	}

	log.Printf("✅ Index '%s' đã được xóa thành công!", indexName)
	return nil
}

func SearchMediaWithFilters(params map[string]string) ([]models.MediaAsset, int, error) {
	if es == nil {
		return nil, 0, fmt.Errorf("ElasticSearch client chưa được khởi tạo")
	}

	filters := BuildMediaFilters(params)
	boolQuery := BuildBoolQuery(params["search"], filters)
	queryBody := BuildESQueryBody(boolQuery, params)
	return ExecuteESQuery(queryBody)
}

func BuildMediaFilters(params map[string]string) []map[string]interface{} {
	filters := []map[string]interface{}{}

	if v := params["mediaType"]; v != "" {
		filters = append(filters, term("mediaType", v))
	}
	if v := params["status"]; v != "" {
		filters = append(filters, term("status", v))
	}
	if v := params["ownerId"]; v != "" {
		filters = append(filters, term("ownerId", v))
	}
	if v := params["tag"]; v != "" {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"tags": []string{v}},
		})
	}
	if v := params["priceMin"]; v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			filters = append(filters, rangeGTE("priceCents", val))
		}
	}
	if v := params["priceMax"]; v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			filters = append(filters, map[string]interface{}{
				"range": map[string]interface{}{
					"priceCents": map[string]interface{}{"lte": val},
				},
			})
		}
	}

	return filters
}

// Build bool query with should + filter
func BuildBoolQuery(search string, filters []map[string]interface{}) map[string]interface{} {
	shouldQuery := []map[string]interface{}{}
	if search != "" {
		shouldQuery = append(shouldQuery,
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":     search,
					"fields":    []string{"title^3", "tags^2", "description", "mediaType"},
					"fuzziness": "AUTO",
				},
			},
			map[string]interface{}{
				"match_phrase_prefix": map[string]interface{}{
					"title": search,
				},
			},
		)
	}

	boolQuery := map[string]interface{}{
		"should":               shouldQuery,
		"filter":               filters,
		"minimum_should_match": 1,
	}
	if len(shouldQuery) == 0 {
		boolQuery["minimum_should_match"] = 0
	}

	return map[string]interface{}{"bool": boolQuery}
}

// Build full ES query body
func BuildESQueryBody(query map[string]interface{}, params map[string]string) map[string]interface{} {
	page, _ := strconv.Atoi(params["page"])
	limit, _ := strconv.Atoi(params["limit"])
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	return map[string]interface{}{
		"from":  offset,
		"size":  limit,
		"query": query,
		"sort": []map[string]interface{}{
			{"_score": "desc"},
		},
	}
}

// Execute ES search
func ExecuteESQuery(query map[string]interface{}) ([]models.MediaAsset, int, error) {
	var results struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.MediaAsset `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	res, err := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex("media_assets"),
		es.Search.WithBody(esutil.NewJSONReader(query)),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, 0, err
	}

	assets := make([]models.MediaAsset, 0)
	for _, hit := range results.Hits.Hits {
		assets = append(assets, hit.Source)
	}

	return assets, results.Hits.Total.Value, nil
}

// Helper: term
func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

// Helper: range gte
func rangeGTE(field string, value int) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{
			field: map[string]interface{}{"gte": value},
		},
	}
}

// AutocompleteMedia gợi ý tiêu đề media theo tiền tố
func AutocompleteMedia(keyword string) ([]map[string]interface{}, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{"match_phrase_prefix": map[string]interface{}{"title": map[string]interface{}{"query": keyword}}},
					{"match_phrase_prefix": map[string]interface{}{"tags": map[string]interface{}{"query": keyword}}},
				},
			},
		},
		"size": 5,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex("media_assets"),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	results := []map[string]interface{}{}
	for _, hit := range r["hits"].(map[string]interface{})["hits"].([]interface{}) {
		results = append(results, hit.(map[string]interface{})["_source"].(map[string]interface{}))
	}
	return results, nil
}
