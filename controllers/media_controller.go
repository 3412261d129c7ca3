package controllers

import (
	"context"
	"strconv"
	"strings"

	"media/config"
	"media/constants"
	"media/dto"
	"media/models"
	"media/response"
	"media/validator"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/fiam/gounidecode/unidecode"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var mediaTypeKeywords = []string{"photo", "video", "audio", "illustration", "vector"}

// Chuẩn hóa chuỗi tìm kiếm: bỏ dấu, viết thường
func normalizeInput(input string) string {
	return strings.ToLower(unidecode.Unidecode(input))
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi theo khoảng cách Levenshtein
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(distance)/float64(maxLen)
}

// parseMediaType đoán loại media từ câu truy vấn tự do
func parseMediaType(query string) string {
	normalizedQuery := normalizeInput(query)
	matcher := createMatcher(mediaTypeKeywords)

	match := matcher.Closest(normalizedQuery)
	if match == "" {
		return ""
	}
	if strings.Contains(normalizedQuery, match) {
		return match
	}
	for _, word := range strings.Fields(normalizedQuery) {
		if calculateSimilarity(word, match) > 0.7 {
			return match
		}
	}
	return ""
}

func toMediaResponse(asset models.MediaAsset) dto.MediaResponse {
	return dto.MediaResponse{
		ID:          asset.ID,
		Title:       asset.Title,
		Description: asset.Description,
		MediaType:   asset.MediaType,
		URL:         asset.URL,
		PriceCents:  asset.PriceCents,
		Tags:        []string(asset.Tags),
		Status:      asset.Status,
		Owner: dto.Actor{
			ID:    asset.Owner.ID,
			Name:  asset.Owner.Name,
			Email: asset.Owner.Email,
		},
		CreatedAt: asset.CreatedAt,
	}
}

// CreateMedia tạo media asset mới, file được upload lên Cloudinary
func CreateMedia(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, _, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	mediaType := c.PostForm("mediaType")
	priceStr := c.PostForm("priceCents")
	tagsStr := c.PostForm("tags")

	priceCents, _ := strconv.ParseInt(priceStr, 10, 64)

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Không có file")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Lỗi khi mở file")
		return
	}
	defer src.Close()

	ctx := context.Background()
	resp, err := config.Cloudinary.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "media"})
	if err != nil {
		response.ServerError(c)
		return
	}

	var tags pq.StringArray
	if tagsStr != "" {
		for _, tag := range strings.Split(tagsStr, ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}

	asset := models.MediaAsset{
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		URL:         resp.SecureURL,
		PublicID:    resp.PublicID,
		Tags:        tags,
		PriceCents:  priceCents,
		Status:      constants.MediaStatusDraft,
		OwnerID:     currentBusinessID,
	}

	if err := validator.ValidateMediaAsset(&asset); err != nil {
		response.FromError(c, err)
		return
	}

	if err := config.DB.Create(&asset).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, asset)
}

// GetAllMedia liệt kê media, hỗ trợ đoán mediaType từ câu truy vấn tự do
func GetAllMedia(c *gin.Context) {
	var filter dto.MediaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	query := config.DB.Preload("Owner").Model(&models.MediaAsset{})

	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	mediaType := filter.MediaType
	if mediaType == "" && filter.Query != "" {
		mediaType = parseMediaType(filter.Query)
	}
	if mediaType != "" {
		query = query.Where("media_type = ?", mediaType)
	}
	if filter.Status >= 0 {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}

	var total int64
	query.Count(&total)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var assets []models.MediaAsset
	if err := query.Order("created_at DESC").
		Offset(filter.Page * limit).
		Limit(limit).
		Find(&assets).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.MediaResponse, 0, len(assets))
	for _, asset := range assets {
		results = append(results, toMediaResponse(asset))
	}

	response.SuccessWithPagination(c, results, filter.Page, limit, int(total))
}

func GetMediaDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	var asset models.MediaAsset
	if err := config.DB.Preload("Owner").First(&asset, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	response.Success(c, toMediaResponse(asset))
}

func UpdateMedia(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, _, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	var asset models.MediaAsset
	if err := config.DB.First(&asset, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	if asset.OwnerID != currentBusinessID {
		response.Forbidden(c)
		return
	}

	var input dto.UpdateMediaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if input.Title != "" {
		asset.Title = input.Title
	}
	if input.Description != "" {
		asset.Description = input.Description
	}
	if input.PriceCents > 0 {
		asset.PriceCents = input.PriceCents
	}
	if len(input.Tags) > 0 {
		asset.Tags = pq.StringArray(input.Tags)
	}

	if err := config.DB.Save(&asset).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, asset)
}

func ChangeMediaStatus(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	currentBusinessID, currentRole, err := GetBusinessIDFromToken(tokenString)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	var input struct {
		ID     uint `json:"id" binding:"required"`
		Status int  `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var asset models.MediaAsset
	if err := config.DB.First(&asset, input.ID).Error; err != nil {
		response.NotFound(c)
		return
	}

	if asset.OwnerID != currentBusinessID && currentRole != 1 {
		response.Forbidden(c)
		return
	}

	if err := config.DB.Model(&asset).Update("status", input.Status).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, nil)
}
