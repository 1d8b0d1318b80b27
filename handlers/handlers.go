package handlers

import (
	"github.com/fadhlanhapp/groupledger-backend/services"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	GroupService      *services.GroupService
	SettlementService *services.SettlementService
	QueryService      *services.QueryService
	SuggestionService *services.SuggestionService
	ExportService     *services.ExportService
}

// NewHandlerServices creates a new handler services instance backed by
// the given store
func NewHandlerServices(store services.Store) *HandlerServices {
	queryService := services.NewQueryService(store)
	return &HandlerServices{
		GroupService:      services.NewGroupService(store),
		SettlementService: services.NewSettlementService(store),
		QueryService:      queryService,
		SuggestionService: services.NewSuggestionService(store),
		ExportService:     services.NewExportService(queryService),
	}
}

var handlerServices *HandlerServices

// InitHandlers initializes the handler services
func InitHandlers(store services.Store) {
	handlerServices = NewHandlerServices(store)
}
