package isapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// defaultValidBegin is the validity-window start used when a user is
// created without an explicit window.
var defaultValidBegin = time.Date(2023, time.January, 1, 1, 0, 0, 0, time.Local)

// UserStore creates a user record on the device. When validStart/validEnd
// are nil the window defaults to defaultValidBegin through now plus seven
// years.
func (c *Client) UserStore(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*Result, error) {
	begin := defaultValidBegin
	if validStart != nil {
		begin = *validStart
	}
	end := c.now().AddDate(7, 0, 0)
	if validEnd != nil {
		end = *validEnd
	}

	deleteUser := false
	body := userInfoEnvelope{UserInfo: userInfo{
		EmployeeNo:        employeeNo,
		DeleteUser:        &deleteUser,
		Name:              name,
		UserType:          "normal",
		CloseDelayEnabled: true,
		Valid: userValid{
			Enable:    true,
			BeginTime: begin.Format(timeLayout),
			EndTime:   end.Format(timeLayout),
			TimeType:  "local",
		},
		DoorRight: "1",
		RightPlan: []rightPlan{{DoorNo: 1, PlanTemplateNo: "1"}},
	}}

	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/AccessControl/UserInfo/Record?format=json", body, "application/json")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UserModify updates an existing user record. Unlike UserStore, an
// unspecified window begins now.
func (c *Client) UserModify(ctx context.Context, cp *models.Checkpoint, employeeNo, name string, validStart, validEnd *time.Time) (*Result, error) {
	begin := c.now()
	if validStart != nil {
		begin = *validStart
	}
	end := c.now().AddDate(7, 0, 0)
	if validEnd != nil {
		end = *validEnd
	}

	body := userInfoEnvelope{UserInfo: userInfo{
		EmployeeNo:        employeeNo,
		Name:              name,
		UserType:          "normal",
		CloseDelayEnabled: true,
		Valid: userValid{
			Enable:    true,
			BeginTime: begin.Format(timeLayout),
			EndTime:   end.Format(timeLayout),
			TimeType:  "local",
		},
		DoorRight: "1",
		RightPlan: []rightPlan{{DoorNo: 1, PlanTemplateNo: "1"}},
	}}

	resp, err := c.transport(cp).Request(ctx, "PUT", "/ISAPI/AccessControl/UserInfo/Modify?format=json", body, "application/json")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// UserDelete removes one user record by employee number.
func (c *Client) UserDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*Result, error) {
	body := userDeleteEnvelope{UserInfoDetail: userInfoDetail{
		Mode:           "byEmployeeNo",
		EmployeeNoList: []employeeNoRef{{EmployeeNo: employeeNo}},
	}}
	return c.putJSON(ctx, cp, "/ISAPI/AccessControl/UserInfoDetail/Delete?format=json", body)
}

// UserDeleteAll removes every user record on the device.
func (c *Client) UserDeleteAll(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	body := userDeleteEnvelope{UserInfoDetail: userInfoDetail{Mode: "all"}}
	return c.putJSON(ctx, cp, "/ISAPI/AccessControl/UserInfoDetail/Delete?format=json", body)
}

// UserCount reads the number of user records on the device. The service
// layer uses this as its connection probe.
func (c *Client) UserCount(ctx context.Context, cp *models.Checkpoint) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "GET", "/ISAPI/AccessControl/UserInfo/Count?format=json", nil, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// CardStore registers a normal card for an employee.
func (c *Client) CardStore(ctx context.Context, cp *models.Checkpoint, employeeNo, cardNo string) (*Result, error) {
	body := cardInfoEnvelope{CardInfo: cardInfo{
		EmployeeNo: employeeNo,
		CardNo:     cardNo,
		CardType:   "normalCard",
	}}
	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/AccessControl/CardInfo/Record?format=json", body, "application/json")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// CardDelete removes the listed cards. The list is passed through as given:
// the device treats an empty list as "delete all cards", so callers must
// pass a non-empty list to scope the delete.
func (c *Client) CardDelete(ctx context.Context, cp *models.Checkpoint, cardNos []string) (*Result, error) {
	cards := make([]cardNoRef, 0, len(cardNos))
	for _, no := range cardNos {
		cards = append(cards, cardNoRef{CardNo: no})
	}
	body := cardDeleteEnvelope{CardInfoDelCond: cardInfoDelCond{CardNoList: cards}}
	return c.putJSON(ctx, cp, "/ISAPI/AccessControl/CardInfo/Delete?format=json", body)
}

// FingerprintStore pushes a fingerprint template. An HTTP 2xx alone is not
// enough: the first card-reader receive status must be positive, otherwise
// the reader rejected the template.
func (c *Client) FingerprintStore(ctx context.Context, cp *models.Checkpoint, employeeNo string, fingerID int, fingerData string) (*Result, error) {
	body := fingerprintCfgEnvelope{FingerPrintCfg: fingerprintCfg{
		EmployeeNo:       employeeNo,
		EnableCardReader: []int{1},
		FingerPrintID:    fingerID,
		FingerType:       "normalFP",
		FingerData:       fingerData,
	}}

	resp, err := c.transport(cp).Request(ctx, "POST", "/ISAPI/AccessControl/FingerPrint/SetUp?format=json", body, "application/json")
	if err != nil {
		return nil, err
	}

	var status fingerprintStatusEnvelope
	ok := resp.OK() &&
		json.Unmarshal(resp.Body, &status) == nil &&
		len(status.FingerPrintStatus.StatusList) > 0 &&
		status.FingerPrintStatus.StatusList[0].CardReaderRecvStatus > 0
	if !ok {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}

// FingerprintDelete removes all fingerprints of one employee.
func (c *Client) FingerprintDelete(ctx context.Context, cp *models.Checkpoint, employeeNo string) (*Result, error) {
	body := fingerprintDeleteEnvelope{FingerPrintDelete: fingerprintDelete{
		Mode:             "byEmployeeNo",
		EmployeeNoDetail: employeeNoRef{EmployeeNo: employeeNo},
	}}
	return c.putJSON(ctx, cp, "/ISAPI/AccessControl/FingerPrint/Delete?format=json", body)
}

// putJSON issues a PUT whose success predicate is plain HTTP 2xx.
func (c *Client) putJSON(ctx context.Context, cp *models.Checkpoint, path string, body any) (*Result, error) {
	resp, err := c.transport(cp).Request(ctx, "PUT", path, body, "application/json")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return failure(resp), nil
	}
	return success(resp, string(resp.Body)), nil
}
