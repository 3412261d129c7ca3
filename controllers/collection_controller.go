package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"media/config"
	"media/constants"
	"media/dto"
	"media/models"
	"media/response"
	"media/services"
	"media/services/logger"
	"media/validator"

	json "github.com/goccy/go-json"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CollectionController struct {
	DB    *gorm.DB
	Redis *redis.Client
	Pool  *services.PoolService
}

func NewCollectionController(db *gorm.DB, redisCli *redis.Client) CollectionController {
	return CollectionController{
		DB:    db,
		Redis: redisCli,
		Pool: services.NewPoolService(services.PoolServiceOptions{
			DB:     db,
			Logger: logger.NewDefaultLogger(logger.InfoLevel),
		}),
	}
}

func earningsCacheKey(collectionID uint) string {
	return fmt.Sprintf("collection:%d:earnings", collectionID)
}

func toCollectionResponse(collection models.Collection) dto.CollectionResponse {
	members := make([]dto.Actor, 0, len(collection.MemberBusinesses))
	for _, member := range collection.MemberBusinesses {
		members = append(members, dto.Actor{
			ID:    member.ID,
			Name:  member.Name,
			Email: member.Email,
		})
	}

	assets := make([]dto.MediaResponse, 0, len(collection.MediaAssets))
	for _, asset := range collection.MediaAssets {
		assets = append(assets, toMediaResponse(asset))
	}

	return dto.CollectionResponse{
		ID:           collection.ID,
		Name:         collection.Name,
		Description:  collection.Description,
		PoolType:     collection.PoolType,
		SharingSplit: collection.SharingSplit,
		Owner: dto.Actor{
			ID:    collection.Owner.ID,
			Name:  collection.Owner.Name,
			Email: collection.Owner.Email,
		},
		Members:       members,
		MediaAssets:   assets,
		TotalRevenue:  collection.TotalRevenue,
		TotalLicenses: collection.TotalLicenses,
		CreatedAt:     collection.CreatedAt,
	}
}

func (ctl CollectionController) CreateCollection(c *gin.Context) {
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

	var input dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sharingSplit := input.SharingSplit
	if sharingSplit == "" {
		sharingSplit = constants.SplitEqual
	}

	var distribution datatypes.JSON
	if len(input.SharingDistribution) > 0 {
		b, err := json.Marshal(input.SharingDistribution)
		if err != nil {
			response.BadRequest(c, "Định dạng sharingDistribution không hợp lệ")
			return
		}
		distribution = datatypes.JSON(b)
	}

	collection := models.Collection{
		Name:                input.Name,
		Description:         input.Description,
		PoolType:            input.PoolType,
		OwnerID:             currentBusinessID,
		SharingSplit:        sharingSplit,
		SharingDistribution: distribution,
	}

	if err := validator.ValidateCollection(&collection); err != nil {
		response.FromError(c, err)
		return
	}

	if len(input.MemberBusinessIDs) > 0 {
		var members []models.Business
		if err := ctl.DB.Find(&members, input.MemberBusinessIDs).Error; err != nil {
			response.ServerError(c)
			return
		}
		collection.MemberBusinesses = members
	}

	if len(input.MediaAssetIDs) > 0 {
		var assets []models.MediaAsset
		if err := ctl.DB.Find(&assets, input.MediaAssetIDs).Error; err != nil {
			response.ServerError(c)
			return
		}
		collection.MediaAssets = assets
	}

	if err := ctl.DB.Create(&collection).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, toCollectionResponse(collection))
}

func (ctl CollectionController) GetCollections(c *gin.Context) {
	var filter dto.CollectionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	query := ctl.DB.Preload("Owner").Preload("MemberBusinesses").Model(&models.Collection{})
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.PoolType != "" {
		query = query.Where("pool_type = ?", filter.PoolType)
	}

	var total int64
	query.Count(&total)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var collections []models.Collection
	if err := query.Order("created_at DESC").
		Offset(filter.Page * limit).
		Limit(limit).
		Find(&collections).Error; err != nil {
		response.ServerError(c)
		return
	}

	results := make([]dto.CollectionResponse, 0, len(collections))
	for _, collection := range collections {
		results = append(results, toCollectionResponse(collection))
	}

	response.SuccessWithPagination(c, results, filter.Page, limit, int(total))
}

func (ctl CollectionController) GetCollectionDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	var collection models.Collection
	if err := ctl.DB.
		Preload("Owner").
		Preload("MemberBusinesses").
		Preload("MediaAssets").
		Preload("MediaAssets.Owner").
		First(&collection, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	response.Success(c, toCollectionResponse(collection))
}

func (ctl CollectionController) UpdateCollection(c *gin.Context) {
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

	var collection models.Collection
	if err := ctl.DB.First(&collection, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	if collection.OwnerID != currentBusinessID {
		response.Forbidden(c)
		return
	}

	var input dto.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if input.Name != "" {
		collection.Name = input.Name
	}
	if input.Description != "" {
		collection.Description = input.Description
	}
	if input.SharingSplit != "" {
		collection.SharingSplit = input.SharingSplit
	}
	if len(input.SharingDistribution) > 0 {
		b, err := json.Marshal(input.SharingDistribution)
		if err != nil {
			response.BadRequest(c, "Định dạng sharingDistribution không hợp lệ")
			return
		}
		collection.SharingDistribution = datatypes.JSON(b)
	}

	if err := validator.ValidateCollection(&collection); err != nil {
		response.FromError(c, err)
		return
	}

	if err := ctl.DB.Save(&collection).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, toCollectionResponse(collection))
}

func (ctl CollectionController) AddCollectionMember(c *gin.Context) {
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

	var collection models.Collection
	if err := ctl.DB.First(&collection, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	if collection.OwnerID != currentBusinessID {
		response.Forbidden(c)
		return
	}

	var input dto.CollectionMemberRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var member models.Business
	if err := ctl.DB.First(&member, input.BusinessID).Error; err != nil {
		response.NotFound(c)
		return
	}

	if err := ctl.DB.Model(&collection).Association("MemberBusinesses").Append(&member); err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, nil)
}

func (ctl CollectionController) AddCollectionMedia(c *gin.Context) {
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

	var collection models.Collection
	if err := ctl.DB.Preload("MemberBusinesses").First(&collection, id).Error; err != nil {
		response.NotFound(c)
		return
	}

	if collection.OwnerID != currentBusinessID {
		response.Forbidden(c)
		return
	}

	var input dto.CollectionMediaRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var asset models.MediaAsset
	if err := ctl.DB.First(&asset, input.MediaAssetID).Error; err != nil {
		response.NotFound(c)
		return
	}

	// Chỉ media của owner hoặc member mới được thêm vào collection
	allowed := asset.OwnerID == collection.OwnerID
	for _, member := range collection.MemberBusinesses {
		if member.ID == asset.OwnerID {
			allowed = true
			break
		}
	}
	if !allowed {
		response.Forbidden(c)
		return
	}

	if err := ctl.DB.Model(&collection).Association("MediaAssets").Append(&asset); err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, nil)
}

// GetCollectionEarnings trả về breakdown earnings, cache 1 phút trên Redis
func (ctl CollectionController) GetCollectionEarnings(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return
	}

	cacheKey := earningsCacheKey(uint(id))

	var cached dto.PoolEarningsResponse
	if err := services.GetFromRedis(config.Ctx, ctl.Redis, cacheKey, &cached); err == nil && cached.CollectionID != 0 {
		response.Success(c, cached)
		return
	}

	earnings, err := ctl.Pool.GetPoolEarnings(c.Request.Context(), uint(id))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := services.SetToRedis(config.Ctx, ctl.Redis, cacheKey, earnings, time.Minute); err != nil {
		fmt.Printf("Lỗi khi lưu cache earnings: %v\n", err)
	}

	response.Success(c, earnings)
}
