package models

import "time"

// PipelineStageCount counts nominations sitting in one (status, stage) pair.
type PipelineStageCount struct {
	Status NominationStatus `db:"status" json:"status"`
	Stage  NominationStage  `db:"current_stage" json:"stage"`
	Count  int              `db:"count" json:"count"`
}

// TierCount counts completed nominations per award tier.
type TierCount struct {
	Tier  AwardTier `db:"award_category" json:"tier"`
	Count int       `db:"count" json:"count"`
}

// RecentDecision is a dashboard row summarising a committee action.
type RecentDecision struct {
	ApplicationNumber string           `db:"application_number" json:"application_number"`
	Stage             NominationStage  `db:"current_stage" json:"stage"`
	Status            NominationStatus `db:"status" json:"status"`
	ActionDate        time.Time        `db:"updated_at" json:"action_date"`
}

// SystemMetrics is a point-in-time snapshot of process health counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// DashboardStats aggregates the admin pipeline overview.
type DashboardStats struct {
	Year             int                  `json:"year"`
	TotalNominations int                  `json:"total_nominations"`
	ByStage          []PipelineStageCount `json:"by_stage"`
	ByTier           []TierCount          `json:"by_tier"`
	Winners          int                  `json:"winners"`
	Rejected         int                  `json:"rejected"`
	RecentDecisions  []RecentDecision     `json:"recent_decisions"`
	GeneratedAt      time.Time            `json:"generated_at"`
}
