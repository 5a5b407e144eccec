// SPDX-License-Identifier: MIT

package packets

// ReasonCode is a single MQTT 5 reason code byte, as carried in ConnAck,
// the Publish-ack family, Suback/Unsuback, Disconnect, and Auth.
// Grounded on the teacher's packets/codes.go Code type.
type ReasonCode struct {
	Code   byte
	Reason string
}

func (c ReasonCode) String() string { return c.Reason }
func (c ReasonCode) Error() string  { return c.Reason }

var (
	RCSuccess                     = ReasonCode{0x00, "success"}
	RCNormalDisconnection         = ReasonCode{0x00, "normal disconnection"}
	RCGrantedQoS0                 = ReasonCode{0x00, "granted qos 0"}
	RCGrantedQoS1                 = ReasonCode{0x01, "granted qos 1"}
	RCGrantedQoS2                 = ReasonCode{0x02, "granted qos 2"}
	RCDisconnectWithWillMessage   = ReasonCode{0x04, "disconnect with will message"}
	RCNoMatchingSubscribers       = ReasonCode{0x10, "no matching subscribers"}
	RCNoSubscriptionExisted       = ReasonCode{0x11, "no subscription existed"}
	RCContinueAuthentication      = ReasonCode{0x18, "continue authentication"}
	RCReAuthenticate              = ReasonCode{0x19, "re-authenticate"}
	RCUnspecifiedError            = ReasonCode{0x80, "unspecified error"}
	RCMalformedPacket             = ReasonCode{0x81, "malformed packet"}
	RCProtocolError               = ReasonCode{0x82, "protocol error"}
	RCImplementationSpecificError = ReasonCode{0x83, "implementation specific error"}
	RCUnsupportedProtocolVersion  = ReasonCode{0x84, "unsupported protocol version"}
	RCClientIdentifierNotValid    = ReasonCode{0x85, "client identifier not valid"}
	RCBadUsernameOrPassword       = ReasonCode{0x86, "bad username or password"}
	RCNotAuthorized               = ReasonCode{0x87, "not authorized"}
	RCServerUnavailable           = ReasonCode{0x88, "server unavailable"}
	RCServerBusy                  = ReasonCode{0x89, "server busy"}
	RCBanned                      = ReasonCode{0x8A, "banned"}
	RCServerShuttingDown          = ReasonCode{0x8B, "server shutting down"}
	RCBadAuthenticationMethod     = ReasonCode{0x8C, "bad authentication method"}
	RCKeepAliveTimeout            = ReasonCode{0x8D, "keep alive timeout"}
	RCSessionTakenOver            = ReasonCode{0x8E, "session taken over"}
	RCTopicFilterInvalid          = ReasonCode{0x8F, "topic filter invalid"}
	RCTopicNameInvalid            = ReasonCode{0x90, "topic name invalid"}
	RCPacketIdentifierInUse       = ReasonCode{0x91, "packet identifier in use"}
	RCPacketIdentifierNotFound    = ReasonCode{0x92, "packet identifier not found"}
	RCReceiveMaximumExceeded      = ReasonCode{0x93, "receive maximum exceeded"}
	RCTopicAliasInvalid           = ReasonCode{0x94, "topic alias invalid"}
	RCPacketTooLarge              = ReasonCode{0x95, "packet too large"}
	RCMessageRateTooHigh          = ReasonCode{0x96, "message rate too high"}
	RCQuotaExceeded               = ReasonCode{0x97, "quota exceeded"}
	RCAdministrativeAction        = ReasonCode{0x98, "administrative action"}
	RCPayloadFormatInvalid        = ReasonCode{0x99, "payload format invalid"}
	RCRetainNotSupported          = ReasonCode{0x9A, "retain not supported"}
	RCQoSNotSupported             = ReasonCode{0x9B, "qos not supported"}
	RCUseAnotherServer            = ReasonCode{0x9C, "use another server"}
	RCServerMoved                 = ReasonCode{0x9D, "server moved"}
	RCSharedSubNotSupported       = ReasonCode{0x9E, "shared subscriptions not supported"}
	RCConnectionRateExceeded      = ReasonCode{0x9F, "connection rate exceeded"}
	RCMaximumConnectTime          = ReasonCode{0xA0, "maximum connect time"}
	RCSubscriptionIDsNotSupported = ReasonCode{0xA1, "subscription identifiers not supported"}
	RCWildcardSubNotSupported     = ReasonCode{0xA2, "wildcard subscriptions not supported"}
)

// allReasonCodes indexes every known v5 reason code by its byte value,
// for validity lookups.
var allReasonCodes = func() map[byte]ReasonCode {
	m := map[byte]ReasonCode{}
	for _, c := range []ReasonCode{
		RCSuccess, RCGrantedQoS1, RCGrantedQoS2, RCDisconnectWithWillMessage,
		RCNoMatchingSubscribers, RCNoSubscriptionExisted, RCContinueAuthentication,
		RCReAuthenticate, RCUnspecifiedError, RCMalformedPacket, RCProtocolError,
		RCImplementationSpecificError, RCUnsupportedProtocolVersion,
		RCClientIdentifierNotValid, RCBadUsernameOrPassword, RCNotAuthorized,
		RCServerUnavailable, RCServerBusy, RCBanned, RCServerShuttingDown,
		RCBadAuthenticationMethod, RCKeepAliveTimeout, RCSessionTakenOver,
		RCTopicFilterInvalid, RCTopicNameInvalid, RCPacketIdentifierInUse,
		RCPacketIdentifierNotFound, RCReceiveMaximumExceeded, RCTopicAliasInvalid,
		RCPacketTooLarge, RCMessageRateTooHigh, RCQuotaExceeded,
		RCAdministrativeAction, RCPayloadFormatInvalid, RCRetainNotSupported,
		RCQoSNotSupported, RCUseAnotherServer, RCServerMoved,
		RCSharedSubNotSupported, RCConnectionRateExceeded, RCMaximumConnectTime,
		RCSubscriptionIDsNotSupported, RCWildcardSubNotSupported,
	} {
		m[c.Code] = c
	}
	return m
}()

// reasonAllowList enumerates, per packet type, which reason code byte
// values are legal on the wire for that type (spec.md §4.5: "reason code
// ... taken from the per-packet allowed set; unknown values are a decode
// error"). Connack is intentionally separate (its "success" semantics and
// code range differ slightly from the rest).
var reasonAllowList = map[byte]map[byte]bool{
	Connack: codeSet(RCSuccess, RCUnspecifiedError, RCMalformedPacket, RCProtocolError,
		RCImplementationSpecificError, RCUnsupportedProtocolVersion, RCClientIdentifierNotValid,
		RCBadUsernameOrPassword, RCNotAuthorized, RCServerUnavailable, RCServerBusy, RCBanned,
		RCBadAuthenticationMethod, RCTopicNameInvalid, RCPacketTooLarge, RCQuotaExceeded,
		RCPayloadFormatInvalid, RCRetainNotSupported, RCQoSNotSupported, RCUseAnotherServer,
		RCServerMoved, RCConnectionRateExceeded),
	Puback: codeSet(RCSuccess, RCNoMatchingSubscribers, RCUnspecifiedError,
		RCImplementationSpecificError, RCNotAuthorized, RCTopicNameInvalid,
		RCPacketIdentifierInUse, RCQuotaExceeded, RCPayloadFormatInvalid),
	Pubrec: codeSet(RCSuccess, RCNoMatchingSubscribers, RCUnspecifiedError,
		RCImplementationSpecificError, RCNotAuthorized, RCTopicNameInvalid,
		RCPacketIdentifierInUse, RCQuotaExceeded, RCPayloadFormatInvalid),
	Pubrel: codeSet(RCSuccess, RCPacketIdentifierNotFound),
	Pubcomp: codeSet(RCSuccess, RCPacketIdentifierNotFound),
	Suback: codeSet(RCGrantedQoS0, RCGrantedQoS1, RCGrantedQoS2,
		RCUnspecifiedError, RCImplementationSpecificError, RCNotAuthorized,
		RCTopicFilterInvalid, RCPacketIdentifierInUse, RCQuotaExceeded,
		RCSharedSubNotSupported, RCSubscriptionIDsNotSupported, RCWildcardSubNotSupported),
	Unsuback: codeSet(RCSuccess, RCNoSubscriptionExisted, RCUnspecifiedError,
		RCImplementationSpecificError, RCNotAuthorized, RCTopicFilterInvalid,
		RCPacketIdentifierInUse),
	Disconnect: codeSet(RCNormalDisconnection, RCDisconnectWithWillMessage, RCUnspecifiedError,
		RCMalformedPacket, RCProtocolError, RCImplementationSpecificError, RCNotAuthorized,
		RCServerBusy, RCServerShuttingDown, RCKeepAliveTimeout, RCSessionTakenOver,
		RCTopicFilterInvalid, RCTopicNameInvalid, RCReceiveMaximumExceeded, RCTopicAliasInvalid,
		RCPacketTooLarge, RCMessageRateTooHigh, RCQuotaExceeded, RCAdministrativeAction,
		RCPayloadFormatInvalid, RCRetainNotSupported, RCQoSNotSupported, RCUseAnotherServer,
		RCServerMoved, RCSharedSubNotSupported, RCConnectionRateExceeded, RCMaximumConnectTime,
		RCSubscriptionIDsNotSupported, RCWildcardSubNotSupported),
	Auth: codeSet(RCSuccess, RCContinueAuthentication, RCReAuthenticate),
}

func codeSet(codes ...ReasonCode) map[byte]bool {
	m := make(map[byte]bool, len(codes))
	for _, c := range codes {
		m[c.Code] = true
	}
	return m
}

// LookupReasonCode returns the named ReasonCode for a raw byte, if known.
func LookupReasonCode(code byte) (ReasonCode, bool) {
	c, ok := allReasonCodes[code]
	return c, ok
}

// ValidReasonCode reports whether code is legal for packetType.
func ValidReasonCode(packetType byte, code byte) bool {
	allow, ok := reasonAllowList[packetType]
	if !ok {
		return false
	}
	return allow[code]
}

// v3ReturnCode maps a v5 Connack reason code down to its v3 CONNACK return
// code, since v3 uses a much smaller, differently-numbered set. Grounded
// on the teacher's codes.go V5CodesToV3 table.
func v3ReturnCode(rc byte) byte {
	switch rc {
	case RCSuccess.Code:
		return 0x00
	case RCUnsupportedProtocolVersion.Code:
		return 0x01
	case RCClientIdentifierNotValid.Code:
		return 0x02
	case RCServerUnavailable.Code:
		return 0x03
	case RCBadUsernameOrPassword.Code:
		return 0x04
	case RCNotAuthorized.Code:
		return 0x05
	default:
		return 0x80
	}
}
