package handler

import (
	"fmt"
	"time"

	"market-backend/internal/domain"
	"market-backend/internal/service"
)

type sessionOut struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   uint   `json:"user_id"`
}

func toSession(s *service.Session) sessionOut {
	return sessionOut{Token: s.Token, Username: s.Username, Email: s.Email, UserID: s.ProfileID}
}

type profileOut struct {
	User         uint        `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         string      `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         domain.Role `json:"type"`
	Email        string      `json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
}

func toProfile(p *domain.Profile) profileOut {
	return profileOut{
		User:         p.ID,
		Username:     p.Identity.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		File:         p.File,
		Location:     p.Location,
		Tel:          p.Tel,
		Description:  p.Description,
		WorkingHours: p.WorkingHours,
		Type:         p.Role,
		Email:        p.Identity.Email,
		CreatedAt:    p.CreatedAt,
	}
}

type detailOut struct {
	ID                 uint            `json:"id"`
	Title              string          `json:"title"`
	Revisions          int             `json:"revisions"`
	DeliveryTimeInDays int             `json:"delivery_time_in_days"`
	Price              string          `json:"price"`
	Features           []string        `json:"features"`
	OfferType          domain.TierType `json:"offer_type"`
}

func toDetail(d *domain.OfferDetail) detailOut {
	features := []string(d.Features)
	if features == nil {
		features = []string{}
	}
	return detailOut{
		ID:                 d.ID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              d.Price.StringFixed(2),
		Features:           features,
		OfferType:          d.TierType,
	}
}

type detailRef struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

type userDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// offerOut is the list and retrieve shape. Details holds []detailRef in lists and
// []detailOut on retrieve.
type offerOut struct {
	ID              uint        `json:"id"`
	User            uint        `json:"user"`
	Title           string      `json:"title"`
	Image           string      `json:"image"`
	Description     string      `json:"description"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Details         any         `json:"details"`
	MinPrice        string      `json:"min_price"`
	MinDeliveryTime int         `json:"min_delivery_time"`
	UserDetails     userDetails `json:"user_details"`
}

func toOffer(o *domain.Offer, full bool) offerOut {
	out := offerOut{
		ID:              o.ID,
		User:            o.ProfileID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		MinPrice:        o.MinPrice.StringFixed(2),
		MinDeliveryTime: o.MinDeliveryTime,
		UserDetails: userDetails{
			FirstName: o.Profile.FirstName,
			LastName:  o.Profile.LastName,
			Username:  o.Profile.Identity.Username,
		},
	}
	if full {
		ds := make([]detailOut, 0, len(o.Details))
		for i := range o.Details {
			ds = append(ds, toDetail(&o.Details[i]))
		}
		out.Details = ds
		return out
	}
	refs := make([]detailRef, 0, len(o.Details))
	for _, d := range o.Details {
		refs = append(refs, detailRef{ID: d.ID, URL: fmt.Sprintf("/offerdetails/%d/", d.ID)})
	}
	out.Details = refs
	return out
}

// offerWriteOut is returned by create and patch.
type offerWriteOut struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
	Details     []detailOut `json:"details"`
}

func toOfferWrite(o *domain.Offer) offerWriteOut {
	out := offerWriteOut{ID: o.ID, Title: o.Title, Image: o.Image, Description: o.Description}
	out.Details = make([]detailOut, 0, len(o.Details))
	for i := range o.Details {
		out.Details = append(out.Details, toDetail(&o.Details[i]))
	}
	return out
}

// orderOut reads the tier fields through the referenced detail.
type orderOut struct {
	ID                 uint               `json:"id"`
	CustomerUser       uint               `json:"customer_user"`
	BusinessUser       uint               `json:"business_user"`
	Title              string             `json:"title"`
	Revisions          int                `json:"revisions"`
	DeliveryTimeInDays int                `json:"delivery_time_in_days"`
	Price              string             `json:"price"`
	Features           []string           `json:"features"`
	OfferType          domain.TierType    `json:"offer_type"`
	Status             domain.OrderStatus `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func toOrder(o *domain.Order) orderOut {
	d := toDetail(&o.OfferDetail)
	return orderOut{
		ID:                 o.ID,
		CustomerUser:       o.CustomerID,
		BusinessUser:       o.BusinessID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              d.Price,
		Features:           d.Features,
		OfferType:          d.OfferType,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toOrders(os []domain.Order) []orderOut {
	out := make([]orderOut, 0, len(os))
	for i := range os {
		out = append(out, toOrder(&os[i]))
	}
	return out
}

type reviewOut struct {
	ID           uint      `json:"id"`
	BusinessUser uint      `json:"business_user"`
	Reviewer     uint      `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toReview(r *domain.Review) reviewOut {
	return reviewOut{
		ID:           r.ID,
		BusinessUser: r.BusinessID,
		Reviewer:     r.ReviewerID,
		Rating:       r.Rating,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type pageOut[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	List  []T   `json:"list"`
}
