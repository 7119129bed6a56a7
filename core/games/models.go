package games

import (
	"time"
)

// OwnedGame is one entry of the account's library.
type OwnedGame struct {
	ProductNo         int64
	GameID            string
	Title             string
	ShortPiece        string
	HasOwnership      bool
	PlatformTypes     []string
	PlaySeconds       int64
	LastPlayedAt      time.Time // zero if never played
	ReleaseCreatedAt  time.Time // zero if unknown
	ProductType       string
	ProductDetailType string // e.g. "DLC"
	GenreTagName      string
	Demo              bool
}

type ownedGamesResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Value   *ownedGamesPage `json:"value"`
}

type ownedGamesPage struct {
	Content       []ownedGameRecord `json:"content"`
	TotalElements int               `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

type ownedGameRecord struct {
	ProductNo         int64    `json:"product_no"`
	ProductName       string   `json:"product_name"`
	ShortPiece        string   `json:"short_piece"`
	GameID            string   `json:"game_id"`
	GameNo            int64    `json:"game_no"`
	GenreTagName      string   `json:"genre_tag_name"`
	ProductType       string   `json:"product_type"`
	PlatformTypes     []string `json:"platform_types"`
	Owner             bool     `json:"owner"`
	LastPlayDate      int64    `json:"last_play_date"`
	PlayTime          int64    `json:"play_time"`
	ReleaseCreatedAt  int64    `json:"release_created_at"`
	HasOwnership      bool     `json:"has_ownership"`
	ProductDetailType string   `json:"product_detail_type"`
	Demo              bool     `json:"demo"`
}

func (r ownedGameRecord) toOwnedGame() OwnedGame {
	return OwnedGame{
		ProductNo:         r.ProductNo,
		GameID:            r.GameID,
		Title:             r.ProductName,
		ShortPiece:        r.ShortPiece,
		HasOwnership:      r.HasOwnership,
		PlatformTypes:     append([]string(nil), r.PlatformTypes...),
		PlaySeconds:       max(r.PlayTime, 0),
		LastPlayedAt:      epoch(r.LastPlayDate),
		ReleaseCreatedAt:  epoch(r.ReleaseCreatedAt),
		ProductType:       r.ProductType,
		ProductDetailType: r.ProductDetailType,
		GenreTagName:      r.GenreTagName,
		Demo:              r.Demo,
	}
}

// epoch accepts seconds or milliseconds; the API has used both.
func epoch(v int64) time.Time {
	switch {
	case v <= 0:
		return time.Time{}
	case v > 100_000_000_000:
		return time.UnixMilli(v).UTC()
	default:
		return time.Unix(v, 0).UTC()
	}
}
