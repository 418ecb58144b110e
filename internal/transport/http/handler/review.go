package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type ReviewHandler struct{ svc *service.ReviewService }

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler { return &ReviewHandler{svc: svc} }

type reviewQuery struct {
	BusinessUserID uint   `form:"business_user_id"`
	ReviewerID     uint   `form:"reviewer_id"`
	Ordering       string `form:"ordering"`
}

func (h *ReviewHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[reviewQuery, []reviewOut]{
		Method: http.MethodGet,
		Path:   "/reviews",
		Binder: ez.BindQuery,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, q *reviewQuery) ([]reviewOut, error) {
			rs, err := h.svc.List(c.Request.Context(), a, service.ListReviewsInput{
				BusinessUserID: q.BusinessUserID,
				ReviewerID:     q.ReviewerID,
				Ordering:       q.Ordering,
			})
			if err != nil {
				return nil, err
			}
			out := make([]reviewOut, 0, len(rs))
			for i := range rs {
				out = append(out, toReview(&rs[i]))
			}
			return out, nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.CreateReviewInput, reviewOut]{
		Method: http.MethodPost,
		Path:   "/reviews",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.CreateReviewInput) (reviewOut, error) {
			r, err := h.svc.Create(c.Request.Context(), a, *in)
			if err != nil {
				return reviewOut{}, err
			}
			return toReview(r), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.ReviewPatch, reviewOut]{
		Method: http.MethodPatch,
		Path:   "/reviews/:id",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.ReviewPatch) (reviewOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return reviewOut{}, err
			}
			r, err := h.svc.Update(c.Request.Context(), a, id, *in)
			if err != nil {
				return reviewOut{}, err
			}
			return toReview(r), nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/reviews/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.svc.Delete(c.Request.Context(), a, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
