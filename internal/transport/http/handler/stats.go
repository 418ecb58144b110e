package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type StatsHandler struct{ svc *service.StatsService }

func NewStatsHandler(svc *service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

type baseInfoOut struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

func (h *StatsHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[struct{}, baseInfoOut]{
		Method: http.MethodGet,
		Path:   "/base-info",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *authz.Actor, _ *struct{}) (baseInfoOut, error) {
			b, err := h.svc.BaseInfo(c.Request.Context())
			if err != nil {
				return baseInfoOut{}, err
			}
			return baseInfoOut{
				ReviewCount:          b.ReviewCount,
				AverageRating:        b.AverageRating,
				BusinessProfileCount: b.BusinessProfileCount,
				OfferCount:           b.OfferCount,
			}, nil
		},
	})
}
