package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type OfferHandler struct{ svc *service.OfferService }

func NewOfferHandler(svc *service.OfferService) *OfferHandler { return &OfferHandler{svc: svc} }

type offerQuery struct {
	CreatorID       uint   `form:"creator_id"`
	MinPrice        string `form:"min_price"`
	MaxDeliveryTime *int   `form:"max_delivery_time"`
	Search          string `form:"search"`
	Ordering        string `form:"ordering"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

func (q offerQuery) input() (service.ListOffersInput, error) {
	in := service.ListOffersInput{
		CreatorID:       q.CreatorID,
		MaxDeliveryTime: q.MaxDeliveryTime,
		Search:          q.Search,
		Ordering:        q.Ordering,
		Page:            q.Page,
		PageSize:        q.PageSize,
	}
	if q.MinPrice != "" {
		p, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			return in, domain.Validation("min_price must be a decimal number")
		}
		in.MinPrice = &p
	}
	return in, nil
}

func (h *OfferHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[offerQuery, pageOut[offerOut]]{
		Method: http.MethodGet,
		Path:   "/offers",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *authz.Actor, q *offerQuery) (pageOut[offerOut], error) {
			in, err := q.input()
			if err != nil {
				return pageOut[offerOut]{}, err
			}
			page, err := h.svc.List(c.Request.Context(), in)
			if err != nil {
				return pageOut[offerOut]{}, err
			}
			out := pageOut[offerOut]{Total: page.Total, Page: page.Page, Size: page.Size, List: make([]offerOut, 0, len(page.List))}
			for i := range page.List {
				out.List = append(out.List, toOffer(&page.List[i], false))
			}
			return out, nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, offerOut]{
		Method: http.MethodGet,
		Path:   "/offers/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *authz.Actor, _ *struct{}) (offerOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return offerOut{}, err
			}
			o, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return offerOut{}, err
			}
			return toOffer(o, true), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.CreateOfferInput, offerWriteOut]{
		Method: http.MethodPost,
		Path:   "/offers",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.CreateOfferInput) (offerWriteOut, error) {
			o, err := h.svc.Create(c.Request.Context(), a, *in)
			if err != nil {
				return offerWriteOut{}, err
			}
			return toOfferWrite(o), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.UpdateOfferInput, offerWriteOut]{
		Method: http.MethodPatch,
		Path:   "/offers/:id",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.UpdateOfferInput) (offerWriteOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return offerWriteOut{}, err
			}
			o, err := h.svc.Update(c.Request.Context(), a, id, *in)
			if err != nil {
				return offerWriteOut{}, err
			}
			return toOfferWrite(o), nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/offers/:id",
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

	ez.RegisterAction(api, ez.Action[struct{}, detailOut]{
		Method: http.MethodGet,
		Path:   "/offerdetails/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (detailOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return detailOut{}, err
			}
			d, err := h.svc.Detail(c.Request.Context(), a, id)
			if err != nil {
				return detailOut{}, err
			}
			return toDetail(d), nil
		},
	})
}
