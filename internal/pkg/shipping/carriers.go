package shipping

// Per-carrier field mappings. Each carrier pushes a differently shaped
// document; these keep that knowledge in one place per provider.

type fedexNormalizer struct{}

func (fedexNormalizer) Normalize(payload map[string]any) NormalizedEvent {
	status := stringField(payload, "statusDescription")
	return NormalizedEvent{
		TrackingNumber:    stringField(payload, "trackingNumber"),
		ExternalOrderID:   stringField(payload, "shipmentId"),
		Status:            status,
		Location:          stringField(childOrEmpty(payload, "location"), "city"),
		EstimatedDelivery: parseEventTime(stringField(payload, "estimatedDeliveryTimestamp")),
		PhotoURL:          stringField(childOrEmpty(payload, "packagePhoto"), "url"),
		Description:       status,
	}
}

type upsNormalizer struct{}

func (upsNormalizer) Normalize(payload map[string]any) NormalizedEvent {
	loc := childOrEmpty(payload, "location")
	return NormalizedEvent{
		TrackingNumber:    stringField(payload, "trackingNumber"),
		ExternalOrderID:   stringField(payload, "shipmentReferenceNumber"),
		Status:            stringField(childOrEmpty(payload, "status"), "description"),
		Location:          joinLocation(stringField(loc, "city"), stringField(loc, "stateProvince")),
		EstimatedDelivery: parseEventTime(stringField(payload, "estimatedDelivery")),
		PhotoURL:          stringField(childOrEmpty(payload, "deliveryPhoto"), "imageUrl"),
		Description:       stringField(payload, "activityDescription"),
	}
}

type uspsNormalizer struct{}

func (uspsNormalizer) Normalize(payload map[string]any) NormalizedEvent {
	return NormalizedEvent{
		TrackingNumber:    stringField(payload, "trackingNumber"),
		ExternalOrderID:   stringField(payload, "labelId"),
		Status:            stringField(payload, "eventType"),
		Location:          stringField(payload, "eventLocation"),
		EstimatedDelivery: parseEventTime(stringField(payload, "expectedDeliveryDate")),
		PhotoURL:          stringField(payload, "imageUrl"),
		Description:       stringField(payload, "eventDescription"),
	}
}

type dhlNormalizer struct{}

func (dhlNormalizer) Normalize(payload map[string]any) NormalizedEvent {
	address := childOrEmpty(childOrEmpty(payload, "location"), "address")
	return NormalizedEvent{
		TrackingNumber:    stringField(payload, "trackingNumber"),
		ExternalOrderID:   stringField(payload, "shipmentId"),
		Status:            stringField(payload, "status"),
		Location:          stringField(address, "addressLocality"),
		EstimatedDelivery: parseEventTime(stringField(payload, "estimatedTimeOfDelivery")),
		PhotoURL:          stringField(childOrEmpty(payload, "proofOfDelivery"), "imageUrl"),
		Description:       stringField(payload, "statusDescription"),
	}
}

// childOrEmpty is childMap that tolerates nil maps, so nested lookups chain.
func childOrEmpty(m map[string]any, key string) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	if child := childMap(m, key); child != nil {
		return child
	}
	return map[string]any{}
}
