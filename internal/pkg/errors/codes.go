package errors

import "net/http"

var (
	ErrSiteNotFound = New(
		"SITE_NOT_FOUND",
		"Site not found",
		http.StatusNotFound,
	)

	ErrSiteAlreadyExists = New(
		"SITE_ALREADY_EXISTS",
		"An active site already covers this location",
		http.StatusConflict,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius: must be between 100 and 1000 meters",
		http.StatusBadRequest,
	)

	ErrInvalidClusteringParams = New(
		"INVALID_CLUSTERING_PARAMS",
		"Invalid clustering parameters",
		http.StatusBadRequest,
	)

	ErrInvalidRankingWeights = New(
		"INVALID_RANKING_WEIGHTS",
		"Invalid ranking weights",
		http.StatusBadRequest,
	)

	ErrInvalidActivityType = New(
		"INVALID_ACTIVITY_TYPE",
		"Invalid activity type",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
