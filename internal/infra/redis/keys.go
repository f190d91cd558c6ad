package redis

const (
	MovementsQueue           = "movements:queue"
	MovementsProcessingQueue = "movements:processing:%d"
	LitersCachePrefix        = "liters:out:"
	LitersCacheGeneration    = "liters:gen"
)
