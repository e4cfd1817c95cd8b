package isapi

import "encoding/xml"

// JSON request shapes. Field order and names follow the device protocol.

type userInfoEnvelope struct {
	UserInfo userInfo `json:"UserInfo"`
}

type userInfo struct {
	EmployeeNo        string      `json:"employeeNo"`
	DeleteUser        *bool       `json:"deleteUser,omitempty"`
	Name              string      `json:"name"`
	UserType          string      `json:"userType"`
	CloseDelayEnabled bool        `json:"closeDelayEnabled"`
	Valid             userValid   `json:"Valid"`
	DoorRight         string      `json:"doorRight"`
	RightPlan         []rightPlan `json:"RightPlan"`
	UserVerifyMode    string      `json:"userVerifyMode"`
}

type userValid struct {
	Enable    bool   `json:"enable"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
	TimeType  string `json:"timeType"`
}

type rightPlan struct {
	DoorNo         int    `json:"doorNo"`
	PlanTemplateNo string `json:"planTemplateNo"`
}

type userDeleteEnvelope struct {
	UserInfoDetail userInfoDetail `json:"UserInfoDetail"`
}

type userInfoDetail struct {
	Mode           string          `json:"mode"`
	EmployeeNoList []employeeNoRef `json:"EmployeeNoList,omitempty"`
}

type employeeNoRef struct {
	EmployeeNo string `json:"employeeNo"`
}

type cardInfoEnvelope struct {
	CardInfo cardInfo `json:"CardInfo"`
}

type cardInfo struct {
	EmployeeNo string `json:"employeeNo"`
	CardNo     string `json:"cardNo"`
	CardType   string `json:"cardType"`
}

type cardDeleteEnvelope struct {
	CardInfoDelCond cardInfoDelCond `json:"CardInfoDelCond"`
}

type cardInfoDelCond struct {
	// CardNoList scopes the delete. The device deletes every card when
	// the list is empty; callers must pass a non-empty list to scope it.
	CardNoList []cardNoRef `json:"CardNoList"`
}

type cardNoRef struct {
	CardNo string `json:"cardNo"`
}

type fingerprintCfgEnvelope struct {
	FingerPrintCfg fingerprintCfg `json:"FingerPrintCfg"`
}

type fingerprintCfg struct {
	EmployeeNo       string `json:"employeeNo"`
	EnableCardReader []int  `json:"enableCardReader"`
	FingerPrintID    int    `json:"fingerPrintID"`
	FingerType       string `json:"fingerType"`
	FingerData       string `json:"fingerData"`
}

type fingerprintDeleteEnvelope struct {
	FingerPrintDelete fingerprintDelete `json:"FingerPrintDelete"`
}

type fingerprintDelete struct {
	Mode             string        `json:"mode"`
	EmployeeNoDetail employeeNoRef `json:"EmployeeNoDetail"`
}

type faceRecord struct {
	FaceURL     string `json:"faceURL"`
	FaceLibType string `json:"faceLibType"`
	FDID        string `json:"FDID"`
	FPID        string `json:"FPID"`
	Name        string `json:"name"`
	BornTime    string `json:"bornTime"`
}

type fdSearchCond struct {
	SearchResultPosition int    `json:"searchResultPosition"`
	MaxResults           int    `json:"maxResults"`
	FaceLibType          string `json:"faceLibType"`
	FDID                 string `json:"FDID"`
	FPID                 string `json:"FPID"`
}

type faceDeleteEnvelope struct {
	FPID []fpidValue `json:"FPID"`
}

type fpidValue struct {
	Value string `json:"value"`
}

// AccessConfig is the full AcsCfg toggle set. The device takes no partial
// update; every field is sent on each call.
type AccessConfig struct {
	UploadCapPic          bool `json:"uploadCapPic"`
	SaveCapPic            bool `json:"saveCapPic"`
	VoicePrompt           bool `json:"voicePrompt"`
	ShowPicture           bool `json:"showPicture"`
	ShowEmployeeNo        bool `json:"showEmployeeNo"`
	ShowName              bool `json:"showName"`
	DesensitiseEmployeeNo bool `json:"desensitiseEmployeeNo"`
	DesensitiseName       bool `json:"desensitiseName"`
	UploadVerificationPic bool `json:"uploadVerificationPic"`
	SaveVerificationPic   bool `json:"saveVerificationPic"`
	SaveFacePic           bool `json:"saveFacePic"`
}

type accessConfigEnvelope struct {
	AcsCfg AccessConfig `json:"AcsCfg"`
}

// JSON response shapes.

type statusEnvelope struct {
	StatusCode int `json:"statusCode"`
}

type fingerprintStatusEnvelope struct {
	FingerPrintStatus fingerprintStatus `json:"FingerPrintStatus"`
}

type fingerprintStatus struct {
	StatusList []readerStatus `json:"StatusList"`
}

type readerStatus struct {
	CardReaderRecvStatus int `json:"cardReaderRecvStatus"`
}

type fdSearchResult struct {
	MatchList []fdMatch `json:"MatchList"`
}

type fdMatch struct {
	FPID string `json:"FPID"`
}

// XML shapes.

// ResponseStatus is the device's generic XML acknowledgement. StatusCode 1
// is the device's "OK" sentinel; an HTTP 2xx with any other code means the
// device rejected the change.
type ResponseStatus struct {
	XMLName    xml.Name `xml:"ResponseStatus"`
	StatusCode int      `xml:"statusCode"`
}

// DeviceInfo is the full device descriptor read from and written to
// /ISAPI/System/deviceInfo.
type DeviceInfo struct {
	XMLName              xml.Name `xml:"DeviceInfo"`
	Version              string   `xml:"version,attr"`
	XMLNS                string   `xml:"xmlns,attr"`
	DeviceName           string   `xml:"deviceName"`
	DeviceID             int      `xml:"deviceID"`
	Model                string   `xml:"model"`
	SerialNumber         string   `xml:"serialNumber"`
	MacAddress           string   `xml:"macAddress"`
	FirmwareVersion      string   `xml:"firmwareVersion"`
	FirmwareReleasedDate string   `xml:"firmwareReleasedDate"`
	EncoderVersion       string   `xml:"encoderVersion"`
	EncoderReleasedDate  string   `xml:"encoderReleasedDate"`
	DeviceType           string   `xml:"deviceType"`
	TelecontrolID        int      `xml:"telecontrolID"`
	SupportBeep          bool     `xml:"supportBeep"`
	LocalZoneNum         int      `xml:"localZoneNum"`
	AlarmOutNum          int      `xml:"alarmOutNum"`
	ElectroLockNum       int      `xml:"electroLockNum"`
	RS485Num             int      `xml:"RS485Num"`
	Manufacturer         string   `xml:"manufacturer"`
	OEMCode              string   `xml:"OEMCode"`
	MarketType           string   `xml:"marketType"`
}

// DeviceInfoCapability describes the fields the device accepts on a
// deviceInfo update. DeviceName is nil when the device does not support
// renaming.
type DeviceInfoCapability struct {
	XMLName    xml.Name        `xml:"DeviceInfo"`
	DeviceName *BoundedTextCap `xml:"deviceName"`
}

// BoundedTextCap is a text-field capability carrying declared length bounds.
type BoundedTextCap struct {
	Max int `xml:"max,attr"`
	Min int `xml:"min,attr"`
}

// TimeCapability reports NTP/time-zone support. NTPServer is nil when the
// device has no NTP support.
type TimeCapability struct {
	NTPServer *struct{} `xml:"NTPServer"`
}

// HostNotificationCapability reports event-host subscription support.
// Both addressing fields must be present for subscriptions to work.
type HostNotificationCapability struct {
	HostName  *struct{} `xml:"hostName"`
	IPAddress *struct{} `xml:"ipAddress"`
}

// AccessConfigCapability mirrors the JSON AcsCfg capability document.
type AccessConfigCapability struct {
	AcsCfg map[string]any `json:"AcsCfg"`
}

// HTTPHostNotification is one event-subscription entry on the device.
type HTTPHostNotification struct {
	ID                       int             `xml:"id"`
	URL                      string          `xml:"url"`
	ProtocolType             string          `xml:"protocolType"`
	ParameterFormatType      string          `xml:"parameterFormatType"`
	AddressingFormatType     string          `xml:"addressingFormatType"`
	HostName                 string          `xml:"hostName"`
	IPAddress                string          `xml:"ipAddress"`
	PortNo                   int             `xml:"portNo"`
	HTTPAuthenticationMethod string          `xml:"httpAuthenticationMethod"`
	SubscribeEvent           *SubscribeEvent `xml:"SubscribeEvent"`
}

// SubscribeEvent is the heartbeat/event-mode block of a subscription.
type SubscribeEvent struct {
	Heartbeat int    `xml:"heartbeat"`
	EventMode string `xml:"eventMode"`
}

// HTTPHostNotificationList is the device's full subscription list.
type HTTPHostNotificationList struct {
	XMLName       xml.Name               `xml:"HttpHostNotificationList"`
	Notifications []HTTPHostNotification `xml:"HttpHostNotification"`
}

// NTPServer is the configuration of one NTP server slot.
type NTPServer struct {
	XMLName              xml.Name `xml:"NTPServer"`
	ID                   int      `xml:"id"`
	AddressingFormatType string   `xml:"addressingFormatType"`
	HostName             string   `xml:"hostName"`
	PortNo               int      `xml:"portNo"`
	SynchronizeInterval  int      `xml:"synchronizeInterval"`
}
