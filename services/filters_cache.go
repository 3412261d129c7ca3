package services

import (
	"context"
	"encoding/json"
	"time"

	"media/dto"

	"github.com/redis/go-redis/v9"
)

func SaveLastFilters(ctx context.Context, rdb *redis.Client, key string, filters *dto.MediaSearchFilters) error {
	b, _ := json.Marshal(filters)
	return rdb.Set(ctx, "last_filters:"+key, b, 30*time.Minute).Err()
}

func GetLastFilters(ctx context.Context, rdb *redis.Client, key string) (*dto.MediaSearchFilters, error) {
	val, err := rdb.Get(ctx, "last_filters:"+key).Result()
	if err != nil {
		return nil, err
	}
	var filters dto.MediaSearchFilters
	json.Unmarshal([]byte(val), &filters)
	return &filters, nil
}

func ClearLastFilters(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, "last_filters:"+key).Err()
}

// Merge yêu cầu cũ với yêu cầu mới
func MergeFilters(old *dto.MediaSearchFilters, new *dto.MediaSearchFilters) *dto.MediaSearchFilters {
	new.Query = orString(new.Query, old.Query)
	new.MediaType = orString(new.MediaType, old.MediaType)
	new.OwnerID = orUintPointer(new.OwnerID, old.OwnerID)
	new.Status = orIntPointer(new.Status, old.Status)

	// Gộp tags
	new.Tags = mergeUniqueStrings(old.Tags, new.Tags)

	// Xử lý case người dùng nhập lại PriceMax và PriceMin
	if new.PriceMin != nil && old.PriceMax != nil && *new.PriceMin > *old.PriceMax {
		new.PriceMax = nil
	} else {
		new.PriceMax = orInt64Pointer(new.PriceMax, old.PriceMax)
	}

	if new.PriceMax != nil && old.PriceMin != nil && *new.PriceMax < *old.PriceMin {
		new.PriceMin = nil
	} else {
		new.PriceMin = orInt64Pointer(new.PriceMin, old.PriceMin)
	}
	return new
}

func orString(newVal, oldVal string) string {
	if newVal != "" {
		return newVal
	}
	return oldVal
}

func orIntPointer(newVal, oldVal *int) *int {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func orInt64Pointer(newVal, oldVal *int64) *int64 {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func orUintPointer(newVal, oldVal *uint) *uint {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func mergeUniqueStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, val := range a {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	for _, val := range b {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
