package common

// Observer receives delivery lifecycle events.
type Observer interface {
	Update(event DeliveryEvent) error
	Name() string
}

// Subject fans delivery events out to subscribed observers.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event DeliveryEvent)
	NotifyAsync(event DeliveryEvent)
}
