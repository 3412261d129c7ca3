package dto

// MemberEarningResponse định nghĩa earnings của một member trong collection
type MemberEarningResponse struct {
	BusinessID          string  `json:"businessId"`
	TotalEarned         float64 `json:"totalEarned"`
	LicenseCount        int     `json:"licenseCount"`
	ContributionPercent float64 `json:"contributionPercent"`
}

// PoolEarningsResponse định nghĩa breakdown earnings của collection
type PoolEarningsResponse struct {
	CollectionID   uint                    `json:"collectionId"`
	CollectionName string                  `json:"collectionName"`
	TotalRevenue   float64                 `json:"totalRevenue"`
	TotalLicenses  int                     `json:"totalLicenses"`
	MemberEarnings []MemberEarningResponse `json:"memberEarnings"`
	MemberCount    int                     `json:"memberCount"`
}
