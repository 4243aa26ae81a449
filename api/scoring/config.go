/* config.go
 * Scoring configuration: per-round point values, bonus values and the flags
 * that switch individual bonuses on or off. Stored configurations are sparse;
 * resolving one fills every gap with a documented default.
 */

package scoring

import (
	"bracket-bot/api/bracket"
)

// RoundPoints holds one point value per main-draw round.
type RoundPoints struct {
	FirstRound  int
	SecondRound int
	ConfFinals  int
	Finals      int
}

// For returns the value configured for the round.
func (p RoundPoints) For(r bracket.Round) int {
	switch r {
	case bracket.FirstRound:
		return p.FirstRound
	case bracket.SecondRound:
		return p.SecondRound
	case bracket.ConfFinals:
		return p.ConfFinals
	case bracket.Finals:
		return p.Finals
	default:
		return 0
	}
}

func (p *RoundPoints) set(r bracket.Round, v int) {
	switch r {
	case bracket.FirstRound:
		p.FirstRound = v
	case bracket.SecondRound:
		p.SecondRound = v
	case bracket.ConfFinals:
		p.ConfFinals = v
	case bracket.Finals:
		p.Finals = v
	}
}

// Config is a fully resolved scoring scheme. Build one with DefaultConfig or
// ConfigRecord.Resolve rather than by hand, so no field is left zero by
// accident.
type Config struct {
	BasePoints   RoundPoints
	SeriesBonus  RoundPoints
	UpsetBonus   int
	MVPBonus     int
	PlayInPoints int

	SeriesBonusEnabled   bool
	UpsetBonusEnabled    bool
	PlayInScoringEnabled bool
}

// DefaultConfig returns the scheme used when a tournament has no stored
// configuration: escalating base points per round, a flat one-point series
// bonus, and every bonus enabled.
func DefaultConfig() Config {
	return Config{
		BasePoints:   RoundPoints{FirstRound: 1, SecondRound: 2, ConfFinals: 3, Finals: 4},
		SeriesBonus:  RoundPoints{FirstRound: 1, SecondRound: 1, ConfFinals: 1, Finals: 1},
		UpsetBonus:   2,
		MVPBonus:     5,
		PlayInPoints: 1,

		SeriesBonusEnabled:   true,
		UpsetBonusEnabled:    true,
		PlayInScoringEnabled: true,
	}
}

// ConfigRecord is the stored form of a scoring configuration. Every field is
// optional; round maps are keyed by round identifier ("firstRound" etc).
type ConfigRecord struct {
	BasePoints   map[string]int `bson:"basePoints,omitempty" json:"basePoints,omitempty"`
	SeriesBonus  map[string]int `bson:"seriesBonus,omitempty" json:"seriesBonus,omitempty"`
	UpsetBonus   *int           `bson:"upsetBonus,omitempty" json:"upsetBonus,omitempty"`
	MVPBonus     *int           `bson:"mvpBonus,omitempty" json:"mvpBonus,omitempty"`
	PlayInPoints *int           `bson:"playInPoints,omitempty" json:"playInPoints,omitempty"`

	SeriesBonusEnabled   *bool `bson:"seriesBonusEnabled,omitempty" json:"seriesBonusEnabled,omitempty"`
	UpsetBonusEnabled    *bool `bson:"upsetBonusEnabled,omitempty" json:"upsetBonusEnabled,omitempty"`
	PlayInScoringEnabled *bool `bson:"playInScoringEnabled,omitempty" json:"playInScoringEnabled,omitempty"`
}

// Resolve merges the record over DefaultConfig. Absent fields keep their
// default; so do negative point values and unknown round keys, since a single
// bad field must not take scoring down with it.
func (rec *ConfigRecord) Resolve() Config {
	cfg := DefaultConfig()
	if rec == nil {
		return cfg
	}
	mergeRoundPoints(&cfg.BasePoints, rec.BasePoints)
	mergeRoundPoints(&cfg.SeriesBonus, rec.SeriesBonus)
	mergeValue(&cfg.UpsetBonus, rec.UpsetBonus)
	mergeValue(&cfg.MVPBonus, rec.MVPBonus)
	mergeValue(&cfg.PlayInPoints, rec.PlayInPoints)
	if rec.SeriesBonusEnabled != nil {
		cfg.SeriesBonusEnabled = *rec.SeriesBonusEnabled
	}
	if rec.UpsetBonusEnabled != nil {
		cfg.UpsetBonusEnabled = *rec.UpsetBonusEnabled
	}
	if rec.PlayInScoringEnabled != nil {
		cfg.PlayInScoringEnabled = *rec.PlayInScoringEnabled
	}
	return cfg
}

func mergeRoundPoints(dst *RoundPoints, src map[string]int) {
	for key, v := range src {
		r, err := bracket.RoundFromKey(key)
		if err != nil || v < 0 {
			continue
		}
		dst.set(r, v)
	}
}

func mergeValue(dst *int, src *int) {
	if src != nil && *src >= 0 {
		*dst = *src
	}
}
