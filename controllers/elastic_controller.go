package controllers

import (
	"media/response"
	"media/services"

	"github.com/gin-gonic/gin"
)

// SearchMedia tìm kiếm media qua Elasticsearch
func SearchMedia(c *gin.Context) {
	params := map[string]string{
		"search":    c.Query("search"),
		"mediaType": c.Query("mediaType"),
		"status":    c.Query("status"),
		"ownerId":   c.Query("ownerId"),
		"tag":       c.Query("tag"),
		"priceMin":  c.Query("priceMin"),
		"priceMax":  c.Query("priceMax"),
		"page":      c.Query("page"),
		"limit":     c.Query("limit"),
	}

	assets, total, err := services.SearchMediaWithFilters(params)
	if err != nil {
		response.ServerError(c)
		return
	}

	results := make([]interface{}, 0, len(assets))
	for _, asset := range assets {
		results = append(results, toMediaResponse(asset))
	}

	response.Success(c, gin.H{
		"data":  results,
		"total": total,
	})
}

// AutocompleteMedia gợi ý tiêu đề media theo tiền tố
func AutocompleteMedia(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.BadRequest(c, "Thiếu từ khóa")
		return
	}

	results, err := services.AutocompleteMedia(keyword)
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, results)
}

// ReindexMedia index lại toàn bộ media vào Elasticsearch
func ReindexMedia(c *gin.Context) {
	if err := services.IndexMediaToES(); err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, nil)
}
