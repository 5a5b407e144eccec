// SPDX-License-Identifier: MIT

package packets

import "bytes"

// Property identifiers, per MQTT 5 §2.2.2.2. Grounded on the teacher's
// packets/properties.go const block.
const (
	PropPayloadFormatIndicator byte = 1
	PropMessageExpiryInterval  byte = 2
	PropContentType            byte = 3
	PropResponseTopic          byte = 8
	PropCorrelationData        byte = 9
	PropSubscriptionIdentifier byte = 11
	PropSessionExpiryInterval  byte = 17
	PropAssignedClientID       byte = 18
	PropServerKeepAlive        byte = 19
	PropAuthenticationMethod   byte = 21
	PropAuthenticationData     byte = 22
	PropRequestProblemInfo     byte = 23
	PropWillDelayInterval      byte = 24
	PropRequestResponseInfo    byte = 25
	PropResponseInfo           byte = 26
	PropServerReference        byte = 28
	PropReasonString           byte = 31
	PropReceiveMaximum         byte = 33
	PropTopicAliasMaximum      byte = 34
	PropTopicAlias             byte = 35
	PropMaximumQoS             byte = 36
	PropRetainAvailable        byte = 37
	PropUserProperty           byte = 38
	PropMaximumPacketSize      byte = 39
	PropWildcardSubAvailable   byte = 40
	PropSubIDAvailable         byte = 41
	PropSharedSubAvailable     byte = 42

	// willProperties is a pseudo packet-type used only as an allow-list
	// key: the property block nested inside a CONNECT's will payload has
	// its own, slightly different, allow-list from CONNECT's own
	// properties.
	willProperties byte = 0xF0
)

// valueShape identifies the on-wire shape of a property's value, used to
// decode/encode it uniformly and to reject duplicate single-occurrence
// identifiers and shape mismatches.
type valueShape int

const (
	shapeByte valueShape = iota
	shapeUint16
	shapeUint32
	shapeVarByteInt
	shapeString
	shapeBinary
	shapeStringPair
)

// multiplicity says whether a property identifier may repeat within one
// packet.
type multiplicity int

const (
	single multiplicity = iota
	multi
)

type propertyDef struct {
	shape valueShape
	mult  multiplicity
	// allowedIn is the set of packet types (using the packet-type consts,
	// plus the willProperties pseudo-type) that may carry this property.
	allowedIn map[byte]bool
}

// propertyTable is the identifier -> (shape, cardinality, allow-list)
// table spec.md §9 calls for: "a table mapping identifier -> (value-shape,
// allow-list-bitmap) captures the validation rules without duplicating
// them per packet type." Grounded on the teacher's validPacketProperties
// map, extended with value shapes and Will/Subscribe/Auth coverage.
var propertyTable = map[byte]propertyDef{
	PropPayloadFormatIndicator: {shapeByte, single, pkts(Publish, willProperties)},
	PropMessageExpiryInterval:  {shapeUint32, single, pkts(Publish, willProperties)},
	PropContentType:            {shapeString, single, pkts(Publish, willProperties)},
	PropResponseTopic:          {shapeString, single, pkts(Publish, willProperties)},
	PropCorrelationData:        {shapeBinary, single, pkts(Publish, willProperties)},
	// Publish is intentionally absent here: SubscriptionIdentifier is
	// legal on a server -> client Publish (forwarding the subscriber's
	// own identifier back to it) but not on a client -> server Publish.
	// The codec has no notion of connection role, so that asymmetry is
	// controlled by Options.AllowClientSubscriptionIdentifier instead of
	// the allow-list (see DecodeProperties).
	PropSubscriptionIdentifier: {shapeVarByteInt, multi, pkts(Subscribe)},
	PropSessionExpiryInterval:  {shapeUint32, single, pkts(Connect, Connack, Disconnect)},
	PropAssignedClientID:       {shapeString, single, pkts(Connack)},
	PropServerKeepAlive:        {shapeUint16, single, pkts(Connack)},
	PropAuthenticationMethod:   {shapeString, single, pkts(Connect, Connack, Auth)},
	PropAuthenticationData:     {shapeBinary, single, pkts(Connect, Connack, Auth)},
	PropRequestProblemInfo:     {shapeByte, single, pkts(Connect)},
	PropWillDelayInterval:      {shapeUint32, single, pkts(willProperties)},
	PropRequestResponseInfo:    {shapeByte, single, pkts(Connect)},
	PropResponseInfo:           {shapeString, single, pkts(Connack)},
	PropServerReference:        {shapeString, single, pkts(Connack, Disconnect)},
	PropReasonString: {shapeString, single, pkts(Connack, Puback, Pubrec, Pubrel, Pubcomp,
		Suback, Unsuback, Disconnect, Auth)},
	PropReceiveMaximum:    {shapeUint16, single, pkts(Connect, Connack)},
	PropTopicAliasMaximum: {shapeUint16, single, pkts(Connect, Connack)},
	PropTopicAlias:        {shapeUint16, single, pkts(Publish)},
	PropMaximumQoS:        {shapeByte, single, pkts(Connack)},
	PropRetainAvailable:   {shapeByte, single, pkts(Connack)},
	PropUserProperty: {shapeStringPair, multi, pkts(Connect, Connack, Publish, Puback, Pubrec,
		Pubrel, Pubcomp, Subscribe, Suback, Unsubscribe, Unsuback, Disconnect, Auth, willProperties)},
	PropMaximumPacketSize:    {shapeUint32, single, pkts(Connect, Connack)},
	PropWildcardSubAvailable: {shapeByte, single, pkts(Connack)},
	PropSubIDAvailable:       {shapeByte, single, pkts(Connack)},
	PropSharedSubAvailable:   {shapeByte, single, pkts(Connack)},
}

func pkts(types ...byte) map[byte]bool {
	m := make(map[byte]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

// UserProperty is an arbitrary key/value pair; the only property shape
// that may repeat with caller-supplied, order-preserved semantics.
type UserProperty struct {
	Key string
	Val string
}

// Properties holds the decoded MQTT 5 property set for one packet (or one
// will-properties block). A zero Properties has no properties set; flags
// distinguish "absent" from "present with zero value" for properties
// whose wire-absence is meaningful (spec.md §3: "tagged sum type").
type Properties struct {
	PayloadFormatIndicator byte
	HasPayloadFormat       bool
	MessageExpiryInterval  uint32
	HasMessageExpiry       bool
	ContentType            string
	ResponseTopic          string
	CorrelationData        []byte
	SubscriptionIdentifier []int
	SessionExpiryInterval  uint32
	HasSessionExpiry       bool
	AssignedClientID       string
	ServerKeepAlive        uint16
	HasServerKeepAlive     bool
	AuthenticationMethod   string
	AuthenticationData     []byte
	RequestProblemInfo     byte
	HasRequestProblemInfo  bool
	WillDelayInterval      uint32
	HasWillDelay           bool
	RequestResponseInfo    byte
	HasRequestResponseInfo bool
	ResponseInfo           string
	ServerReference        string
	ReasonString           string
	ReceiveMaximum         uint16
	TopicAliasMaximum      uint16
	TopicAlias             uint16
	HasTopicAlias          bool
	MaximumQoS             byte
	HasMaximumQoS          bool
	RetainAvailable        byte
	HasRetainAvailable     bool
	User                   []UserProperty
	MaximumPacketSize      uint32
	WildcardSubAvailable   byte
	HasWildcardSubAvail    bool
	SubIDAvailable         byte
	HasSubIDAvailable      bool
	SharedSubAvailable     byte
	HasSharedSubAvailable  bool
}

// Options configures leniency knobs that apply across decode operations.
// The zero value is the strict, spec-compliant default.
type Options struct {
	// AllowClientSubscriptionIdentifier, when true, accepts a
	// SubscriptionIdentifier property on a client->server Publish, which
	// the spec forbids by default (spec.md §9 Open Question: "strict
	// decoders reject; some implementations tolerate").
	AllowClientSubscriptionIdentifier bool

	// MaxPacketSize caps the total on-wire packet length (fixed header
	// plus remaining length), checked by the incremental decoder as soon
	// as the fixed header is known (the codec's only admission-control
	// knob, spec.md §4.6). Zero means no cap.
	MaxPacketSize uint32
}

// encodeProperties writes the properties for packet type pkt: a
// canonical-order property block (ascending identifier for
// single-occurrence properties, insertion order preserved for
// UserProperty), prefixed by its measured VBI length, per spec.md §4.3.
func (p *Properties) encodeProperties(pkt byte) []byte {
	var body []byte
	put := func(id byte) []byte { return append(body, id) }

	if p.HasPayloadFormat && propertyTable[PropPayloadFormatIndicator].allowedIn[pkt] {
		body = append(put(PropPayloadFormatIndicator), p.PayloadFormatIndicator)
	}
	if p.HasMessageExpiry && propertyTable[PropMessageExpiryInterval].allowedIn[pkt] {
		body = encodeUint32(put(PropMessageExpiryInterval), p.MessageExpiryInterval)
	}
	if p.ContentType != "" && propertyTable[PropContentType].allowedIn[pkt] {
		body = encodeString(put(PropContentType), p.ContentType)
	}
	if p.ResponseTopic != "" && propertyTable[PropResponseTopic].allowedIn[pkt] {
		body = encodeString(put(PropResponseTopic), p.ResponseTopic)
	}
	if len(p.CorrelationData) > 0 && propertyTable[PropCorrelationData].allowedIn[pkt] {
		body = encodeBytes(put(PropCorrelationData), p.CorrelationData)
	}
	if pkt == Publish || propertyTable[PropSubscriptionIdentifier].allowedIn[pkt] {
		for _, id := range p.SubscriptionIdentifier {
			body = encodeVarByteInt(put(PropSubscriptionIdentifier), id)
		}
	}
	if p.HasSessionExpiry && propertyTable[PropSessionExpiryInterval].allowedIn[pkt] {
		body = encodeUint32(put(PropSessionExpiryInterval), p.SessionExpiryInterval)
	}
	if p.AssignedClientID != "" && propertyTable[PropAssignedClientID].allowedIn[pkt] {
		body = encodeString(put(PropAssignedClientID), p.AssignedClientID)
	}
	if p.HasServerKeepAlive && propertyTable[PropServerKeepAlive].allowedIn[pkt] {
		body = encodeUint16(put(PropServerKeepAlive), p.ServerKeepAlive)
	}
	if p.AuthenticationMethod != "" && propertyTable[PropAuthenticationMethod].allowedIn[pkt] {
		body = encodeString(put(PropAuthenticationMethod), p.AuthenticationMethod)
	}
	if len(p.AuthenticationData) > 0 && propertyTable[PropAuthenticationData].allowedIn[pkt] {
		body = encodeBytes(put(PropAuthenticationData), p.AuthenticationData)
	}
	if p.HasRequestProblemInfo && propertyTable[PropRequestProblemInfo].allowedIn[pkt] {
		body = append(put(PropRequestProblemInfo), p.RequestProblemInfo)
	}
	if p.HasWillDelay && propertyTable[PropWillDelayInterval].allowedIn[pkt] {
		body = encodeUint32(put(PropWillDelayInterval), p.WillDelayInterval)
	}
	if p.HasRequestResponseInfo && propertyTable[PropRequestResponseInfo].allowedIn[pkt] {
		body = append(put(PropRequestResponseInfo), p.RequestResponseInfo)
	}
	if p.ResponseInfo != "" && propertyTable[PropResponseInfo].allowedIn[pkt] {
		body = encodeString(put(PropResponseInfo), p.ResponseInfo)
	}
	if p.ServerReference != "" && propertyTable[PropServerReference].allowedIn[pkt] {
		body = encodeString(put(PropServerReference), p.ServerReference)
	}
	if p.ReasonString != "" && propertyTable[PropReasonString].allowedIn[pkt] {
		body = encodeString(put(PropReasonString), p.ReasonString)
	}
	if p.ReceiveMaximum > 0 && propertyTable[PropReceiveMaximum].allowedIn[pkt] {
		body = encodeUint16(put(PropReceiveMaximum), p.ReceiveMaximum)
	}
	if p.TopicAliasMaximum > 0 && propertyTable[PropTopicAliasMaximum].allowedIn[pkt] {
		body = encodeUint16(put(PropTopicAliasMaximum), p.TopicAliasMaximum)
	}
	if p.HasTopicAlias && propertyTable[PropTopicAlias].allowedIn[pkt] {
		body = encodeUint16(put(PropTopicAlias), p.TopicAlias)
	}
	if p.HasMaximumQoS && propertyTable[PropMaximumQoS].allowedIn[pkt] {
		body = append(put(PropMaximumQoS), p.MaximumQoS)
	}
	if p.HasRetainAvailable && propertyTable[PropRetainAvailable].allowedIn[pkt] {
		body = append(put(PropRetainAvailable), p.RetainAvailable)
	}
	if propertyTable[PropMaximumPacketSize].allowedIn[pkt] && p.MaximumPacketSize > 0 {
		body = encodeUint32(put(PropMaximumPacketSize), p.MaximumPacketSize)
	}
	if p.HasWildcardSubAvail && propertyTable[PropWildcardSubAvailable].allowedIn[pkt] {
		body = append(put(PropWildcardSubAvailable), p.WildcardSubAvailable)
	}
	if p.HasSubIDAvailable && propertyTable[PropSubIDAvailable].allowedIn[pkt] {
		body = append(put(PropSubIDAvailable), p.SubIDAvailable)
	}
	if p.HasSharedSubAvailable && propertyTable[PropSharedSubAvailable].allowedIn[pkt] {
		body = append(put(PropSharedSubAvailable), p.SharedSubAvailable)
	}
	// UserProperty preserves insertion order and is written last so the
	// rest of the block stays in ascending-identifier canonical order.
	if propertyTable[PropUserProperty].allowedIn[pkt] {
		for _, up := range p.User {
			body = encodeString(encodeString(put(PropUserProperty), up.Key), up.Val)
		}
	}

	return body
}

// Encode writes the property block (VBI length prefix + body) for packet
// type pkt to buf.
func (p *Properties) Encode(pkt byte, buf *bytes.Buffer) {
	if p == nil {
		buf.WriteByte(0)
		return
	}
	body := p.encodeProperties(pkt)
	var tmp [4]byte
	buf.Write(encodeVarByteInt(tmp[:0], len(body)))
	buf.Write(body)
}

// EncodedLen returns the byte length of Encode's output (length prefix +
// body) without allocating the buffer.
func (p *Properties) EncodedLen(pkt byte) int {
	if p == nil {
		return 1
	}
	n := len(p.encodeProperties(pkt))
	return varByteIntLen(n) + n
}

// DecodeProperties parses a property block from buf starting at offset,
// for packet type pkt, enforcing spec.md §4.3's rules: the declared
// length exactly consumes the property region; identifiers are checked
// against the allow-list; single-occurrence identifiers do not repeat;
// value shapes match. Returns the offset just past the property block.
func DecodeProperties(pkt byte, buf []byte, offset int, opts Options) (*Properties, int, error) {
	length, next, err := decodeVarByteInt(buf, offset)
	if err != nil {
		return nil, offset, err
	}
	if length == 0 {
		return &Properties{}, next, nil
	}
	if next+length > len(buf) {
		return nil, offset, newError(ErrTrailingBytes, offset, "property length overruns buffer")
	}

	p := &Properties{}
	seen := map[byte]bool{}
	end := next + length
	o := next

	for o < end {
		var id byte
		id, o, err = decodeByte(buf, o)
		if err != nil {
			return nil, o, err
		}

		def, known := propertyTable[id]
		if !known || !def.allowedIn[pkt] {
			if id == PropSubscriptionIdentifier && pkt == Publish && opts.AllowClientSubscriptionIdentifier {
				// leniency toggle: tolerate, as if it had been allowed.
				def = propertyTable[PropSubscriptionIdentifier]
			} else {
				return nil, o, newError(ErrInvalidProperty, o, "property not valid for this packet type")
			}
		}
		if def.mult == single && seen[id] {
			return nil, o, newError(ErrInvalidProperty, o, "duplicate single-occurrence property")
		}
		seen[id] = true

		o, err = p.decodeOne(id, def, buf, o)
		if err != nil {
			return nil, o, err
		}
	}
	if o != end {
		return nil, o, newError(ErrInvalidProperty, offset, "property block did not end on declared boundary")
	}

	return p, end, nil
}

func (p *Properties) decodeOne(id byte, def propertyDef, buf []byte, offset int) (int, error) {
	var err error
	switch id {
	case PropPayloadFormatIndicator:
		p.PayloadFormatIndicator, offset, err = decodeByte(buf, offset)
		p.HasPayloadFormat = true
	case PropMessageExpiryInterval:
		p.MessageExpiryInterval, offset, err = decodeUint32(buf, offset)
		p.HasMessageExpiry = true
	case PropContentType:
		p.ContentType, offset, err = decodeString(buf, offset)
	case PropResponseTopic:
		p.ResponseTopic, offset, err = decodeString(buf, offset)
	case PropCorrelationData:
		p.CorrelationData, offset, err = decodeBytes(buf, offset)
	case PropSubscriptionIdentifier:
		var v int
		v, offset, err = decodeVarByteInt(buf, offset)
		if err == nil {
			p.SubscriptionIdentifier = append(p.SubscriptionIdentifier, v)
		}
	case PropSessionExpiryInterval:
		p.SessionExpiryInterval, offset, err = decodeUint32(buf, offset)
		p.HasSessionExpiry = true
	case PropAssignedClientID:
		p.AssignedClientID, offset, err = decodeString(buf, offset)
	case PropServerKeepAlive:
		p.ServerKeepAlive, offset, err = decodeUint16(buf, offset)
		p.HasServerKeepAlive = true
	case PropAuthenticationMethod:
		p.AuthenticationMethod, offset, err = decodeString(buf, offset)
	case PropAuthenticationData:
		p.AuthenticationData, offset, err = decodeBytes(buf, offset)
	case PropRequestProblemInfo:
		p.RequestProblemInfo, offset, err = decodeByte(buf, offset)
		p.HasRequestProblemInfo = true
	case PropWillDelayInterval:
		p.WillDelayInterval, offset, err = decodeUint32(buf, offset)
		p.HasWillDelay = true
	case PropRequestResponseInfo:
		p.RequestResponseInfo, offset, err = decodeByte(buf, offset)
		p.HasRequestResponseInfo = true
	case PropResponseInfo:
		p.ResponseInfo, offset, err = decodeString(buf, offset)
	case PropServerReference:
		p.ServerReference, offset, err = decodeString(buf, offset)
	case PropReasonString:
		p.ReasonString, offset, err = decodeString(buf, offset)
	case PropReceiveMaximum:
		p.ReceiveMaximum, offset, err = decodeUint16(buf, offset)
	case PropTopicAliasMaximum:
		p.TopicAliasMaximum, offset, err = decodeUint16(buf, offset)
	case PropTopicAlias:
		p.TopicAlias, offset, err = decodeUint16(buf, offset)
		p.HasTopicAlias = true
	case PropMaximumQoS:
		p.MaximumQoS, offset, err = decodeByte(buf, offset)
		p.HasMaximumQoS = true
	case PropRetainAvailable:
		p.RetainAvailable, offset, err = decodeByte(buf, offset)
		p.HasRetainAvailable = true
	case PropUserProperty:
		var k, v string
		k, offset, err = decodeString(buf, offset)
		if err != nil {
			return offset, err
		}
		v, offset, err = decodeString(buf, offset)
		if err == nil {
			p.User = append(p.User, UserProperty{Key: k, Val: v})
		}
	case PropMaximumPacketSize:
		p.MaximumPacketSize, offset, err = decodeUint32(buf, offset)
	case PropWildcardSubAvailable:
		p.WildcardSubAvailable, offset, err = decodeByte(buf, offset)
		p.HasWildcardSubAvail = true
	case PropSubIDAvailable:
		p.SubIDAvailable, offset, err = decodeByte(buf, offset)
		p.HasSubIDAvailable = true
	case PropSharedSubAvailable:
		p.SharedSubAvailable, offset, err = decodeByte(buf, offset)
		p.HasSharedSubAvailable = true
	default:
		_ = def
	}
	return offset, err
}
