package bokun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myhttpclient"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
)

const (
	DefaultBaseURL = "https://api.bokun.io"

	dateLayout = "2006-01-02"
)

// Endpoint names used in logs and upstream errors
const (
	EndpointActivity        = "activity"
	EndpointPriceList       = "price-list"
	EndpointAvailabilities  = "availabilities"
	EndpointProductList     = "product-list"
	EndpointCartInit        = "cart-init"
	EndpointCartAdd         = "cart-add"
	EndpointCartQuestions   = "cart-questions"
	EndpointCartAnswers     = "cart-answers"
	EndpointCheckoutOptions = "checkout-options"
	EndpointCheckoutSubmit  = "checkout-submit"
)

//go:generate mockgen -source=client.go -package bokun -destination client_mock.go Client
type Client interface {
	GetActivity(c context.Context, activityID string, lang Language) (Activity, error)
	// GetPriceList omits the lang parameter when lang is empty
	GetPriceList(c context.Context, activityID string, lang Language) (PriceList, error)
	GetAvailabilities(c context.Context, activityID string, start time.Time, end time.Time, lang Language) ([]Availability, error)
	GetProductList(c context.Context, listID string, lang Language) (ProductList, error)
	// GetCart creates the cart of the session when it does not exist yet
	GetCart(c context.Context, sessionID string) (Cart, error)
	AddActivityToCart(c context.Context, sessionID string, req AddActivityRequest) error
	GetCartQuestions(c context.Context, sessionID string) (CartQuestions, error)
	AnswerCartQuestions(c context.Context, sessionID string, answers CartAnswers) error
	GetCheckoutOptions(c context.Context, sessionID string, lang Language) (CheckoutOptions, error)
	SubmitCheckout(c context.Context, req CheckoutSubmitRequest) (CheckoutSubmitResponse, error)
}

type client struct {
	baseURL string
	signer  *Signer
	sender  myhttpclient.HTTPSender
	logger  mylog.Logger
}

func NewClient(baseURL string, signer *Signer, sender myhttpclient.HTTPSender, logger mylog.Logger) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		signer:  signer,
		sender:  sender,
		logger:  logger,
	}
}

func (cl *client) GetActivity(c context.Context, activityID string, lang Language) (Activity, error) {
	resp := Activity{}
	path := fmt.Sprintf("/activity.json/%s?lang=%s", url.PathEscape(activityID), lang)
	err := cl.do(c, EndpointActivity, activityID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return Activity{}, err
	}
	return resp, nil
}

func (cl *client) GetPriceList(c context.Context, activityID string, lang Language) (PriceList, error) {
	resp := PriceList{}
	path := fmt.Sprintf("/activity.json/%s/price-list", url.PathEscape(activityID))
	if lang != "" {
		path += fmt.Sprintf("?lang=%s", lang)
	}
	err := cl.do(c, EndpointPriceList, activityID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return PriceList{}, err
	}
	return resp, nil
}

func (cl *client) GetAvailabilities(c context.Context, activityID string, start time.Time, end time.Time, lang Language) ([]Availability, error) {
	raw := json.RawMessage{}
	path := fmt.Sprintf("/activity.json/%s/availabilities?start=%s&end=%s&lang=%s&includeSoldOut=false",
		url.PathEscape(activityID), start.Format(dateLayout), end.Format(dateLayout), lang)
	err := cl.do(c, EndpointAvailabilities, activityID, http.MethodGet, path, nil, &raw)
	if err != nil {
		return nil, err
	}

	availabilities, err := decodeAvailabilities(raw)
	if err != nil {
		return nil, myerrors.NewUpstreamError(EndpointAvailabilities, http.StatusOK, fmt.Sprintf("error decoding availabilities: %s", err))
	}
	return availabilities, nil
}

func (cl *client) GetProductList(c context.Context, listID string, lang Language) (ProductList, error) {
	resp := ProductList{}
	path := fmt.Sprintf("/product-list.json/%s?lang=%s", url.PathEscape(listID), lang)
	err := cl.do(c, EndpointProductList, listID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return ProductList{}, err
	}
	return resp, nil
}

func (cl *client) GetCart(c context.Context, sessionID string) (Cart, error) {
	resp := Cart{}
	path := fmt.Sprintf("/shopping-cart.json/session/%s", url.PathEscape(sessionID))
	err := cl.do(c, EndpointCartInit, sessionID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return Cart{}, err
	}
	return resp, nil
}

func (cl *client) AddActivityToCart(c context.Context, sessionID string, req AddActivityRequest) error {
	path := fmt.Sprintf("/shopping-cart.json/session/%s/activity", url.PathEscape(sessionID))
	return cl.do(c, EndpointCartAdd, sessionID, http.MethodPost, path, req, nil)
}

func (cl *client) GetCartQuestions(c context.Context, sessionID string) (CartQuestions, error) {
	resp := CartQuestions{}
	path := fmt.Sprintf("/question.json/shopping-cart/%s", url.PathEscape(sessionID))
	err := cl.do(c, EndpointCartQuestions, sessionID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return CartQuestions{}, err
	}
	return resp, nil
}

func (cl *client) AnswerCartQuestions(c context.Context, sessionID string, answers CartAnswers) error {
	path := fmt.Sprintf("/question.json/shopping-cart/%s", url.PathEscape(sessionID))
	return cl.do(c, EndpointCartAnswers, sessionID, http.MethodPost, path, answers, nil)
}

func (cl *client) GetCheckoutOptions(c context.Context, sessionID string, lang Language) (CheckoutOptions, error) {
	resp := CheckoutOptions{}
	path := fmt.Sprintf("/checkout.json/options/shopping-cart/%s?lang=%s", url.PathEscape(sessionID), lang)
	err := cl.do(c, EndpointCheckoutOptions, sessionID, http.MethodGet, path, nil, &resp)
	if err != nil {
		return CheckoutOptions{}, err
	}
	return resp, nil
}

func (cl *client) SubmitCheckout(c context.Context, req CheckoutSubmitRequest) (CheckoutSubmitResponse, error) {
	resp := CheckoutSubmitResponse{}
	err := cl.do(c, EndpointCheckoutSubmit, req.ShoppingCart.UUID, http.MethodPost, "/checkout.json/submit", req, &resp)
	if err != nil {
		return CheckoutSubmitResponse{}, err
	}
	return resp, nil
}

// do signs and sends a request; every failure comes back as an upstream error that names the endpoint
func (cl *client) do(c context.Context, endpoint string, traceLabel string, method string, path string, request any, response any) error {
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error marshalling %s request: %s", endpoint, err))
		}
	}

	signed := cl.signer.Sign(path, method)

	status, respBody, err := cl.sender.Send(c, method, cl.baseURL+path, signed.Headers, body)
	if err != nil {
		cl.logger.Log(c, traceLabel, mylog.SeverityError, "%s %s (%s) failed: %s", method, path, endpoint, err)
		return myerrors.NewUpstreamError(endpoint, 0, err.Error())
	}

	if status < 200 || status >= 300 {
		cl.logger.Log(c, traceLabel, mylog.SeverityError, "%s %s (%s) returned %d: %s", method, path, endpoint, status, string(respBody))
		return myerrors.NewUpstreamError(endpoint, status, string(respBody))
	}

	if response != nil && len(respBody) > 0 {
		err = json.Unmarshal(respBody, response)
		if err != nil {
			cl.logger.Log(c, traceLabel, mylog.SeverityError, "%s %s (%s) returned undecodable body: %s", method, path, endpoint, err)
			return myerrors.NewUpstreamError(endpoint, status, fmt.Sprintf("error decoding response: %s", err))
		}
	}

	return nil
}
