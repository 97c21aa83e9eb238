package handlers

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Calendar     *CalendarHandler
	Group        *GroupHandler
	Subscription *SubscriptionHandler
	Notify       *NotifyHandler
}
