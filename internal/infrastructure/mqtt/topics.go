package mqtt

// DefaultTopicPrefix is used when mqtt.topic_prefix is empty.
const DefaultTopicPrefix = "masterdata"

// Topics provides builders for the service's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.NewTopics("masterdata")
//	topics.RecordCreated("machine")
//	// Returns: "masterdata/events/machine/created"
type Topics struct {
	Prefix string
}

// NewTopics returns topic builders rooted at prefix.
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{Prefix: prefix}
}

func (t Topics) root() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// ServiceStatus returns the retained online/offline status topic.
//
// Example: masterdata/system/status
func (t Topics) ServiceStatus() string {
	return t.root() + "/system/status"
}

// RecordCreated returns the topic announcing new records of one entity.
//
// Example: masterdata/events/machine/created
func (t Topics) RecordCreated(entity string) string {
	return t.root() + "/events/" + entity + "/created"
}

// AllRecordEvents returns a wildcard matching every record event.
//
// Example: masterdata/events/#
func (t Topics) AllRecordEvents() string {
	return t.root() + "/events/#"
}
