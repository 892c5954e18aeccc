package domain

import "errors"

var (
	ErrNoStation        = errors.New("no trade station configured for region")
	ErrAllRegionsFailed = errors.New("all regions failed")
)
