package domain

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&Identity{},
		&AuthToken{},
		&Profile{},
		&Offer{},
		&OfferDetail{},
		&Order{},
		&Review{},
	}
}
