package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/lib/mypublisher"
	"github.com/MarcGrol/bookingbackend/lib/mystore"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
	"github.com/MarcGrol/bookingbackend/lib/myuuid"
	"github.com/MarcGrol/bookingbackend/services/bokun"
	"github.com/MarcGrol/bookingbackend/services/bookingrecord"
	"github.com/MarcGrol/bookingbackend/services/checkoutevents"
)

const (
	sessionID = "3f6c1a2e-0000-4000-8000-000000000001"
	origin    = "https://tours.example.com"
)

var (
	intent = Intent{
		ActivityID:  123,
		RateID:      7,
		Date:        "2026-03-01",
		StartTimeID: 9,
		Passengers:  []PassengerLine{{PricingCategoryID: 1, Quantity: 2, UnitPrice: 50}, {PricingCategoryID: 2, Quantity: 0, UnitPrice: 25}},
		Currency:    "EUR",
		Lang:        "es",
	}

	cardOption = bokun.CheckoutOption{
		Type: "CUSTOMER_FULL_PAYMENT",
		PaymentMethods: &bokun.PaymentMethods{
			CardProvider: &bokun.PaymentProvider{UTI: "uti-1", ClientPaymentParameters: &bokun.ClientPaymentParameters{PublicKey: "pk_test_1"}},
		},
	}
	noPaymentOption = bokun.CheckoutOption{Type: bokun.CheckoutOptionNoPayment}

	cartWithBooking = bokun.Cart{UUID: sessionID, ActivityBookings: []bokun.CartActivityBooking{{BookingID: "77", ActivityID: 123}}}
)

type testContext struct {
	c            context.Context
	sut          *service
	client       *bokun.MockClient
	attemptStore mystore.Store[Attempt]
	bookingStore *bookingrecord.MockStore
	publisher    *mypublisher.MockPublisher
	payer        *MockPayer
}

func TestStart(t *testing.T) {

	t.Run("Without required questions straight to payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			SessionID: sessionID, ActivityID: 123, Date: "2026-03-01", Passengers: 2,
		})
		gomock.InOrder(
			tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{UUID: sessionID}, nil),
			tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, bokun.AddActivityRequest{
				ActivityID:              123,
				RateID:                  7,
				StartTimeID:             9,
				Date:                    "2026-03-01",
				PricingCategoryBookings: []bokun.PricingCategoryBooking{{PricingCategoryID: 1}, {PricingCategoryID: 1}},
			}).Return(nil),
			tc.client.EXPECT().GetCartQuestions(gomock.Any(), sessionID).Return(optionalQuestions, nil),
			tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, bokun.LanguageSpanish).
				Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil),
		)

		// when
		status, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatePaymentReady, status.State)
		assert.Equal(t, 100.0, status.Total)
		assert.Equal(t, "EUR", status.Currency)
		assert.Equal(t, &PaymentDescriptor{
			SessionID:       sessionID,
			CheckoutOption:  "CUSTOMER_FULL_PAYMENT",
			RequiresPayment: true,
			UTI:             "uti-1",
			PublicKey:       "pk_test_1",
		}, status.Payment)

		attempt := mustGetAttempt(t, tc)
		assert.Equal(t, StatePaymentReady, attempt.State)
		assert.Len(t, attempt.Passengers, 1)
		assert.False(t, attempt.AnswersSubmitted)
	})

	t.Run("With required questions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{}, nil)
		tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, gomock.Any()).Return(nil)
		tc.client.EXPECT().GetCartQuestions(gomock.Any(), sessionID).Return(activityQuestions, nil)

		// when
		status, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateQuestionsPending, status.State)
		assert.Equal(t, QuestionsActivityOnly, status.Questions.Kind)
		assert.Nil(t, status.Payment)
	})

	t.Run("Invalid intents never reach the provider", func(t *testing.T) {
		invalid := map[string]Intent{
			"no activity":       {RateID: 7, StartTimeID: 9, Date: "2026-03-01", Passengers: []PassengerLine{{PricingCategoryID: 1, Quantity: 1}}},
			"bad date":          {ActivityID: 1, RateID: 7, StartTimeID: 9, Date: "1/3/2026", Passengers: []PassengerLine{{PricingCategoryID: 1, Quantity: 1}}},
			"negative quantity": {ActivityID: 1, RateID: 7, StartTimeID: 9, Date: "2026-03-01", Passengers: []PassengerLine{{PricingCategoryID: 1, Quantity: 2}, {PricingCategoryID: 2, Quantity: -1}}},
			"no passengers":     {ActivityID: 1, RateID: 7, StartTimeID: 9, Date: "2026-03-01", Passengers: []PassengerLine{{PricingCategoryID: 1, Quantity: 0}}},
		}
		for name, in := range invalid {
			t.Run(name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()
				tc := setupService(t, ctrl, Config{})

				_, err := tc.sut.start(tc.c, in, "")
				assert.True(t, myerrors.IsInvalidInputError(err))
			})
		}
	})

	t.Run("Cart failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutFailed{
			SessionID: sessionID,
			Step:      "cart-add",
			Reason:    `status: 502, err: cart error: upstream cart-add failed with status 400: {"message":"sold out"}`,
		})
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{}, nil)
		tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, gomock.Any()).
			Return(myerrors.NewUpstreamError(bokun.EndpointCartAdd, 400, `{"message":"sold out"}`))

		// when
		_, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cart error")
		assert.Equal(t, http.StatusBadGateway, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)
	})

	t.Run("Questions failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Times(2)
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{}, nil)
		tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, gomock.Any()).Return(nil)
		tc.client.EXPECT().GetCartQuestions(gomock.Any(), sessionID).
			Return(bokun.CartQuestions{}, myerrors.NewUpstreamError(bokun.EndpointCartQuestions, 0, "timeout"))

		// when
		_, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.Contains(t, err.Error(), "failed to fetch questions")
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)
	})

	t.Run("Missing uti is a configuration error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Times(2)
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{}, nil)
		tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, gomock.Any()).Return(nil)
		tc.client.EXPECT().GetCartQuestions(gomock.Any(), sessionID).Return(bokun.CartQuestions{}, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{{Type: "CUSTOMER_FULL_PAYMENT", PaymentMethods: &bokun.PaymentMethods{}}}}, nil)

		// when
		_, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.True(t, myerrors.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "checkout options error")
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)
	})

	t.Run("No-payment option needs no uti", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{}, nil)
		tc.client.EXPECT().AddActivityToCart(gomock.Any(), sessionID, gomock.Any()).Return(nil)
		tc.client.EXPECT().GetCartQuestions(gomock.Any(), sessionID).Return(bokun.CartQuestions{}, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{noPaymentOption, cardOption}}, nil)

		// when
		status, err := tc.sut.start(tc.c, intent, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, &PaymentDescriptor{SessionID: sessionID, CheckoutOption: bokun.CheckoutOptionNoPayment}, status.Payment)
	})
}

func TestSubmitAnswers(t *testing.T) {
	answers := AnswersRequest{Contact: validContact, Answers: map[string]string{"pickup_place": "Hotel Sol"}}

	t.Run("Accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAttempt(t, tc, StateQuestionsPending, activityQuestions)
		tc.client.EXPECT().AnswerCartQuestions(gomock.Any(), sessionID, gomock.Any()).
			DoAndReturn(func(c context.Context, sid string, payload bokun.CartAnswers) error {
				assert.Equal(t, "+48600112233", payload.MainContactDetails[3].Values[0])
				assert.Equal(t, "Hotel Sol", payload.ActivityBookings[0].Answers[0].Values[0])
				return nil
			})
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, bokun.LanguageSpanish).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)

		// when
		status, err := tc.sut.submitAnswers(tc.c, sessionID, answers)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatePaymentReady, status.State)
		attempt := mustGetAttempt(t, tc)
		assert.True(t, attempt.AnswersSubmitted)
		assert.Equal(t, validContact, attempt.Contact)
		assert.Equal(t, answers.Answers, attempt.answers())
	})

	t.Run("Missing required answer leaves state untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAttempt(t, tc, StateQuestionsPending, activityQuestions)

		// when
		_, err := tc.sut.submitAnswers(tc.c, sessionID, AnswersRequest{Contact: validContact, Answers: map[string]string{}})

		// then
		assert.True(t, myerrors.IsInvalidInputError(err))
		assert.Equal(t, StateQuestionsPending, mustGetAttempt(t, tc).State)
	})

	t.Run("Wrong state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAttempt(t, tc, StatePaymentReady, activityQuestions)

		// when
		_, err := tc.sut.submitAnswers(tc.c, sessionID, answers)

		// then
		assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
	})

	t.Run("Unknown session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// when
		_, err := tc.sut.submitAnswers(tc.c, "unknown", answers)

		// then
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
	})
}

func TestSubmit(t *testing.T) {
	total := 100.0
	confirmed := bokun.CheckoutSubmitResponse{
		Booking: bokun.Booking{BookingID: "555", ConfirmationCode: "TOUR-555", Status: "CONFIRMED", TotalPrice: &bokun.Money{Amount: &total, Currency: "EUR"}},
		Invoice: json.RawMessage(`{"totalAsText":"100.00 EUR"}`),
	}

	t.Run("Card payment for logged in user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.BookingConfirmed{
			SessionID: sessionID, ConfirmationCode: "TOUR-555", ActivityID: 123, UserID: "u1", Total: 100, Currency: "EUR",
		})
		gomock.InOrder(
			tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil),
			tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, bokun.LanguageSpanish).
				Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil),
			tc.client.EXPECT().SubmitCheckout(gomock.Any(), bokun.CheckoutSubmitRequest{
				CheckoutOption: "CUSTOMER_FULL_PAYMENT",
				PaymentMethod:  bokun.PaymentMethodCard,
				PaymentToken:   "pm_123",
				UTI:            "uti-1",
				Source:         bokun.SourceShoppingCart,
				ShoppingCart:   bokun.CartReference{UUID: sessionID},
				SuccessURL:     origin + "/es/checkout/success",
				CancelURL:      origin + "/es/checkout/cancel",
				ErrorURL:       origin + "/es/checkout/error",
			}).Return(confirmed, nil),
		)
		tc.bookingStore.EXPECT().Create(gomock.Any(), bookingrecord.BookingRecord{
			ConfirmationCode: "TOUR-555",
			UserID:           "u1",
			SessionID:        sessionID,
			ActivityID:       123,
			Date:             "2026-03-01",
			Total:            100,
			Currency:         "EUR",
			CreatedAt:        mytime.ExampleTime,
		}).Return(nil)

		// when
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{CheckoutOption: "CUSTOMER_FULL_PAYMENT", PaymentToken: "pm_123"}, origin, "u1")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfirmed, status.State)
		assert.Equal(t, "TOUR-555", status.Booking.ConfirmationCode)
		assert.Equal(t, "555", status.Booking.BookingID)
		assert.JSONEq(t, `{"totalAsText":"100.00 EUR"}`, string(status.Booking.Invoice))
		assert.Equal(t, StateConfirmed, mustGetAttempt(t, tc).State)
	})

	t.Run("Answers resubmitted when configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{ResubmitAnswers: true})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().AnswerCartQuestions(gomock.Any(), sessionID, gomock.Any()).
			DoAndReturn(func(c context.Context, sid string, payload bokun.CartAnswers) error {
				assert.Equal(t, "Hotel Sol", payload.ActivityBookings[0].Answers[0].Values[0])
				return nil
			})
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), gomock.Any()).Return(confirmed, nil)

		// when
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfirmed, status.State)
	})

	t.Run("No payment with skipped questions posts contact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAttempt(t, tc, StatePaymentReady, optionalQuestions)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().AnswerCartQuestions(gomock.Any(), sessionID, gomock.Any()).
			DoAndReturn(func(c context.Context, sid string, payload bokun.CartAnswers) error {
				assert.Equal(t, "Ana", payload.MainContactDetails[0].Values[0])
				assert.Equal(t, []string{"Ana"}, payload.ActivityBookings[0].Passengers[0].PassengerDetails[0].Values)
				return nil
			})
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{noPaymentOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), bokun.CheckoutSubmitRequest{
			CheckoutOption: bokun.CheckoutOptionNoPayment,
			Source:         bokun.SourceShoppingCart,
			ShoppingCart:   bokun.CartReference{UUID: sessionID},
		}).Return(bokun.CheckoutSubmitResponse{Booking: bokun.Booking{ConfirmationCode: "TOUR-556"}}, nil)

		// when
		contact := validContact
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{CheckoutOption: bokun.CheckoutOptionNoPayment, Contact: &contact}, origin, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "TOUR-556", status.Booking.ConfirmationCode)
		assert.Equal(t, 0.0, status.Booking.Total)
		assert.Empty(t, status.Booking.Currency)
	})

	t.Run("Booking without provider total keeps record total empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		attempt := mustGetAttempt(t, tc)
		attempt.Passengers = []PassengerLine{{PricingCategoryID: 1, Quantity: 2, UnitPrice: 0.01}}
		attempt.Total = 0.02
		attempt.Currency = "XXX"
		require.NoError(t, tc.attemptStore.Put(tc.c, sessionID, attempt))

		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.BookingConfirmed{
			SessionID: sessionID, ConfirmationCode: "TOUR-557", ActivityID: 123, UserID: "u1",
		})
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), gomock.Any()).
			Return(bokun.CheckoutSubmitResponse{Booking: bokun.Booking{BookingID: "557", ConfirmationCode: "TOUR-557"}}, nil)
		tc.bookingStore.EXPECT().Create(gomock.Any(), bookingrecord.BookingRecord{
			ConfirmationCode: "TOUR-557",
			UserID:           "u1",
			SessionID:        sessionID,
			ActivityID:       123,
			Date:             "2026-03-01",
			CreatedAt:        mytime.ExampleTime,
		}).Return(nil)

		// when
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "u1")

		// then
		assert.NoError(t, err)
		assert.Equal(t, 0.0, status.Booking.Total)
		assert.Empty(t, status.Booking.Currency)
	})

	t.Run("Anonymous submit of an attempt started by a user persists nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		attempt := mustGetAttempt(t, tc)
		attempt.UserID = "u1"
		require.NoError(t, tc.attemptStore.Put(tc.c, sessionID, attempt))

		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		tc.bookingStore.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		// when
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfirmed, status.State)
		assert.Empty(t, mustGetAttempt(t, tc).UserID)
	})

	t.Run("Skipped questions require contact", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAttempt(t, tc, StatePaymentReady, optionalQuestions)

		// when
		_, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{CheckoutOption: bokun.CheckoutOptionNoPayment}, origin, "")

		// then
		assert.True(t, myerrors.IsInvalidInputError(err))
		assert.Equal(t, StatePaymentReady, mustGetAttempt(t, tc).State)
	})

	t.Run("Paying option requires token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)

		// when
		_, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{CheckoutOption: "CUSTOMER_FULL_PAYMENT"}, origin, "")

		// then
		assert.True(t, myerrors.IsInvalidInputError(err))
		assert.Equal(t, StatePaymentReady, mustGetAttempt(t, tc).State)
	})

	t.Run("Chosen option no longer offered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{noPaymentOption}}, nil)

		// when
		_, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{CheckoutOption: "CUSTOMER_FULL_PAYMENT", PaymentToken: "pm_123"}, origin, "")

		// then
		assert.True(t, myerrors.IsInvalidInputError(err))
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)
	})

	t.Run("Empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(bokun.Cart{UUID: sessionID}, nil)

		// when
		_, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "")

		// then
		assert.Contains(t, err.Error(), "cart error")
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)
	})

	t.Run("Submit failure is terminal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), gomock.Any()).
			Return(bokun.CheckoutSubmitResponse{}, myerrors.NewUpstreamError(bokun.EndpointCheckoutSubmit, 402, "card declined"))

		// when
		_, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "")

		// then
		assert.Contains(t, err.Error(), "checkout submit failed")
		assert.Equal(t, StateFailed, mustGetAttempt(t, tc).State)

		_, err = tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "")
		assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
	})

	t.Run("Booking persistence failure does not fail checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// given
		givenAnsweredAttempt(t, tc)
		tc.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any())
		tc.client.EXPECT().GetCart(gomock.Any(), sessionID).Return(cartWithBooking, nil)
		tc.client.EXPECT().GetCheckoutOptions(gomock.Any(), sessionID, gomock.Any()).
			Return(bokun.CheckoutOptions{Options: []bokun.CheckoutOption{cardOption}}, nil)
		tc.client.EXPECT().SubmitCheckout(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		tc.bookingStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("database down"))

		// when
		status, err := tc.sut.submit(tc.c, sessionID, SubmitRequest{PaymentToken: "pm_123"}, origin, "u1")

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateConfirmed, status.State)
	})
}

func TestCreatePaymentMethod(t *testing.T) {
	t.Run("Test mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{PaymentTestMode: true})

		// given
		givenAnsweredAttempt(t, tc)
		tc.payer.EXPECT().CreatePaymentMethod(gomock.Any(), "pk_test_1", "tok_visa").Return("pm_123", nil)

		// when
		resp, err := tc.sut.createPaymentMethod(tc.c, sessionID, PaymentMethodRequest{CardToken: "tok_visa"})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "pm_123", resp.PaymentMethodID)
	})

	t.Run("Disabled outside test mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tc := setupService(t, ctrl, Config{})

		// when
		_, err := tc.sut.createPaymentMethod(tc.c, sessionID, PaymentMethodRequest{CardToken: "tok_visa"})

		// then
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
	})
}

func givenAttempt(t *testing.T, tc testContext, state State, questions bokun.CartQuestions) {
	questionBytes, err := json.Marshal(questions)
	require.NoError(t, err)

	attempt := Attempt{
		SessionID:   sessionID,
		State:       state,
		Lang:        bokun.LanguageSpanish,
		ActivityID:  123,
		RateID:      7,
		Date:        "2026-03-01",
		StartTimeID: 9,
		Passengers:  []PassengerLine{{PricingCategoryID: 1, Quantity: 2, UnitPrice: 50}},
		Currency:    "EUR",
		Total:       100,
		Questions:   string(questionBytes),
		CreatedAt:   mytime.ExampleTime,
	}
	if state == StatePaymentReady {
		attempt.Payment = PaymentDescriptor{SessionID: sessionID, CheckoutOption: cardOption.Type, RequiresPayment: true, UTI: "uti-1", PublicKey: "pk_test_1"}
	}
	err = tc.attemptStore.Put(tc.c, sessionID, attempt)
	require.NoError(t, err)
}

func givenAnsweredAttempt(t *testing.T, tc testContext) {
	givenAttempt(t, tc, StatePaymentReady, activityQuestions)

	attempt := mustGetAttempt(t, tc)
	attempt.AnswersSubmitted = true
	attempt.Contact = validContact
	attempt.Answers = `{"pickup_place":"Hotel Sol"}`
	err := tc.attemptStore.Put(tc.c, sessionID, attempt)
	require.NoError(t, err)
}

func mustGetAttempt(t *testing.T, tc testContext) Attempt {
	attempt, found, err := tc.attemptStore.Get(tc.c, sessionID)
	require.NoError(t, err)
	require.True(t, found)
	return attempt
}

func setupService(t *testing.T, ctrl *gomock.Controller, cfg Config) testContext {
	c := context.TODO()
	attemptStore, _, err := mystore.NewInMemoryStore[Attempt](c)
	require.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().Return(sessionID).AnyTimes()

	tc := testContext{
		c:            c,
		client:       bokun.NewMockClient(ctrl),
		attemptStore: attemptStore,
		bookingStore: bookingrecord.NewMockStore(ctrl),
		publisher:    mypublisher.NewMockPublisher(ctrl),
		payer:        NewMockPayer(ctrl),
	}
	tc.sut = newService(cfg, tc.client, tc.attemptStore, tc.bookingStore, tc.publisher, tc.payer, nower, uuider,
		mylog.NewWriterLogger("checkout", io.Discard))
	return tc
}
