package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/myevents"
	"github.com/MarcGrol/bookingbackend/lib/mylog"
	"github.com/MarcGrol/bookingbackend/services/bokun"
	"github.com/MarcGrol/bookingbackend/services/bookingrecord"
	"github.com/MarcGrol/bookingbackend/services/checkoutevents"
)

const (
	msgCartError       = "cart error"
	msgQuestionsError  = "failed to fetch questions"
	msgAnswersError    = "failed to submit answers"
	msgOptionsError    = "checkout options error"
	msgSubmitError     = "checkout submit failed"
	intentDateLayout   = "2006-01-02"
	redirectPathFormat = "%s/%s/checkout/%s"
)

func validateIntent(intent Intent) ([]PassengerLine, error) {
	if intent.ActivityID <= 0 {
		return nil, myerrors.NewInvalidInputErrorf("missing activity")
	}
	if intent.RateID <= 0 {
		return nil, myerrors.NewInvalidInputErrorf("missing rate")
	}
	if intent.StartTimeID <= 0 {
		return nil, myerrors.NewInvalidInputErrorf("missing start time")
	}
	_, err := time.Parse(intentDateLayout, intent.Date)
	if err != nil {
		return nil, myerrors.NewInvalidInputErrorf("invalid date '%s'", intent.Date)
	}

	lines := []PassengerLine{}
	for _, l := range intent.Passengers {
		if l.Quantity < 0 {
			return nil, myerrors.NewInvalidInputErrorf("negative quantity %d for pricing category %d", l.Quantity, l.PricingCategoryID)
		}
		if l.Quantity == 0 {
			continue
		}
		if l.PricingCategoryID <= 0 {
			return nil, myerrors.NewInvalidInputErrorf("missing pricing category")
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, myerrors.NewInvalidInputErrorf("at least one passenger is required")
	}
	return lines, nil
}

// start creates the cart of a fresh session and moves on to questions or payment
func (s *service) start(c context.Context, intent Intent, userID string) (Status, error) {
	lines, err := validateIntent(intent)
	if err != nil {
		return Status{}, err
	}

	now := s.nower.Now()
	sessionID := s.uuider.Create()
	lang := bokun.LanguageFromLocale(intent.Lang)

	attempt := Attempt{
		SessionID:    sessionID,
		State:        StateIntent,
		Lang:         lang,
		UserID:       userID,
		ActivityID:   intent.ActivityID,
		RateID:       intent.RateID,
		Date:         intent.Date,
		StartTimeID:  intent.StartTimeID,
		Passengers:   lines,
		Currency:     intent.Currency,
		Total:        Total(lines),
		CreatedAt:    now,
		LastModified: now,
	}

	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Start checkout %s for activity %d on %s", sessionID, intent.ActivityID, intent.Date)

	passengerCount := 0
	for _, l := range lines {
		passengerCount += l.Quantity
	}
	err = s.save(c, attempt, checkoutevents.CheckoutStarted{
		SessionID:  sessionID,
		ActivityID: intent.ActivityID,
		Date:       intent.Date,
		Passengers: passengerCount,
	})
	if err != nil {
		return Status{}, err
	}

	_, err = s.client.GetCart(c, sessionID)
	if err != nil {
		return s.fail(c, attempt, "cart-init", myerrors.WithMessage(msgCartError, err))
	}

	err = s.client.AddActivityToCart(c, sessionID, bokun.AddActivityRequest{
		ActivityID:              intent.ActivityID,
		RateID:                  intent.RateID,
		StartTimeID:             intent.StartTimeID,
		Date:                    intent.Date,
		PricingCategoryBookings: cartLines(lines),
	})
	if err != nil {
		return s.fail(c, attempt, "cart-add", myerrors.WithMessage(msgCartError, err))
	}

	attempt.State = StateCartCreated
	err = s.save(c, attempt)
	if err != nil {
		return Status{}, err
	}

	questions, err := s.client.GetCartQuestions(c, sessionID)
	if err != nil {
		return s.fail(c, attempt, "cart-questions", myerrors.WithMessage(msgQuestionsError, err))
	}

	questionBytes, err := json.Marshal(questions)
	if err != nil {
		return Status{}, myerrors.NewInternalError(fmt.Errorf("error encoding questions: %s", err))
	}
	attempt.Questions = string(questionBytes)

	set := classifyQuestions(questions)
	if set.HasRequired() {
		s.logger.Log(c, sessionID, mylog.SeverityInfo, "Checkout %s has %s questions", sessionID, set.Kind)
		attempt.State = StateQuestionsPending
		err = s.save(c, attempt)
		if err != nil {
			return Status{}, err
		}
		return attempt.Status(), nil
	}

	return s.preparePayment(c, attempt)
}

func (s *service) get(c context.Context, sessionID string) (Status, error) {
	attempt, err := s.getAttempt(c, sessionID)
	if err != nil {
		return Status{}, err
	}
	return attempt.Status(), nil
}

// submitAnswers validates locally before anything is sent to the provider
func (s *service) submitAnswers(c context.Context, sessionID string, req AnswersRequest) (Status, error) {
	attempt, err := s.getAttempt(c, sessionID)
	if err != nil {
		return Status{}, err
	}
	if attempt.State != StateQuestionsPending {
		return Status{}, myerrors.NewConflictError(fmt.Errorf("checkout %s is in state %s, not accepting answers", sessionID, attempt.State))
	}

	questions := attempt.cartQuestions()
	err = validateAnswers(classifyQuestions(questions), req.Answers, req.Contact)
	if err != nil {
		return Status{}, err
	}

	answerBytes, err := json.Marshal(req.Answers)
	if err != nil {
		return Status{}, myerrors.NewInvalidInputError(fmt.Errorf("error encoding answers: %s", err))
	}

	err = s.client.AnswerCartQuestions(c, sessionID, buildCartAnswers(questions, req.Answers, req.Contact, s.cfg.PhonePrefix))
	if err != nil {
		return s.fail(c, attempt, "cart-answers", myerrors.WithMessage(msgAnswersError, err))
	}

	attempt.Answers = string(answerBytes)
	attempt.Contact = req.Contact
	attempt.AnswersSubmitted = true
	attempt.State = StateAnswersSubmitted
	err = s.save(c, attempt)
	if err != nil {
		return Status{}, err
	}

	return s.preparePayment(c, attempt)
}

// preparePayment uses the first checkout option to describe the payment widget
func (s *service) preparePayment(c context.Context, attempt Attempt) (Status, error) {
	options, err := s.client.GetCheckoutOptions(c, attempt.SessionID, attempt.Lang)
	if err != nil {
		return s.fail(c, attempt, "checkout-options", myerrors.WithMessage(msgOptionsError, err))
	}
	if len(options.Options) == 0 {
		return s.fail(c, attempt, "checkout-options", myerrors.WithMessage(msgOptionsError,
			myerrors.NewConfigurationErrorf("no checkout options offered for session %s", attempt.SessionID)))
	}

	option := options.Options[0]
	descriptor := PaymentDescriptor{
		SessionID:       attempt.SessionID,
		CheckoutOption:  option.Type,
		RequiresPayment: option.RequiresPayment(),
	}
	if option.RequiresPayment() {
		descriptor.UTI = option.UTI()
		descriptor.PublicKey = option.PublicKey()
		if descriptor.UTI == "" || descriptor.PublicKey == "" {
			return s.fail(c, attempt, "checkout-options", myerrors.WithMessage(msgOptionsError,
				myerrors.NewConfigurationErrorf("checkout option %s has no payment provider (uti present:%t, public key present:%t)",
					option.Type, descriptor.UTI != "", descriptor.PublicKey != "")))
		}
	}

	attempt.Payment = descriptor
	attempt.State = StatePaymentReady
	err = s.save(c, attempt)
	if err != nil {
		return Status{}, err
	}

	s.logger.Log(c, attempt.SessionID, mylog.SeverityInfo, "Checkout %s ready for payment with option %s", attempt.SessionID, option.Type)

	return attempt.Status(), nil
}

// createPaymentMethod is a test-mode stand-in for the hosted card tokenizer
func (s *service) createPaymentMethod(c context.Context, sessionID string, req PaymentMethodRequest) (PaymentMethodResponse, error) {
	if !s.cfg.PaymentTestMode {
		return PaymentMethodResponse{}, myerrors.NewNotFoundError(fmt.Errorf("payment method creation is only available in test mode"))
	}
	if req.CardToken == "" {
		return PaymentMethodResponse{}, myerrors.NewInvalidInputErrorf("missing card token")
	}

	attempt, err := s.getAttempt(c, sessionID)
	if err != nil {
		return PaymentMethodResponse{}, err
	}
	if attempt.State != StatePaymentReady || attempt.Payment.PublicKey == "" {
		return PaymentMethodResponse{}, myerrors.NewConflictError(fmt.Errorf("checkout %s is not waiting for a card payment", sessionID))
	}

	id, err := s.payer.CreatePaymentMethod(c, attempt.Payment.PublicKey, req.CardToken)
	if err != nil {
		return PaymentMethodResponse{}, err
	}
	return PaymentMethodResponse{PaymentMethodID: id}, nil
}

// submit books the cart; origin is the public site used to build the redirect urls
func (s *service) submit(c context.Context, sessionID string, req SubmitRequest, origin string, userID string) (Status, error) {
	attempt, err := s.getAttempt(c, sessionID)
	if err != nil {
		return Status{}, err
	}
	if attempt.State != StatePaymentReady {
		return Status{}, myerrors.NewConflictError(fmt.Errorf("checkout %s is in state %s, not ready for submission", sessionID, attempt.State))
	}

	optionType := req.CheckoutOption
	if optionType == "" {
		optionType = attempt.Payment.CheckoutOption
	}
	if optionType != bokun.CheckoutOptionNoPayment && req.PaymentToken == "" {
		return Status{}, myerrors.NewInvalidInputErrorf("missing payment token for checkout option %s", optionType)
	}

	contact := attempt.Contact
	if !attempt.AnswersSubmitted {
		if req.Contact == nil {
			return Status{}, myerrors.NewInvalidInputErrorf("missing contact")
		}
		err = validateContact(*req.Contact)
		if err != nil {
			return Status{}, err
		}
		contact = *req.Contact
	}

	attempt, err = s.markSubmitting(c, sessionID)
	if err != nil {
		return Status{}, err
	}
	// only the identity of the submitting request owns the booking
	attempt.UserID = userID

	cart, err := s.client.GetCart(c, sessionID)
	if err != nil {
		return s.fail(c, attempt, "cart-init", myerrors.WithMessage(msgCartError, err))
	}
	if len(cart.ActivityBookings) == 0 {
		return s.fail(c, attempt, "cart-init", myerrors.WithMessage(msgCartError,
			myerrors.NewNotFoundError(fmt.Errorf("cart of session %s holds no activity booking", sessionID))))
	}

	if !attempt.AnswersSubmitted || s.cfg.ResubmitAnswers {
		err = s.client.AnswerCartQuestions(c, sessionID, buildCartAnswers(attempt.cartQuestions(), attempt.answers(), contact, s.cfg.PhonePrefix))
		if err != nil {
			return s.fail(c, attempt, "cart-answers", myerrors.WithMessage(msgAnswersError, err))
		}
		attempt.Contact = contact
		attempt.AnswersSubmitted = true
	}

	options, err := s.client.GetCheckoutOptions(c, sessionID, attempt.Lang)
	if err != nil {
		return s.fail(c, attempt, "checkout-options", myerrors.WithMessage(msgOptionsError, err))
	}
	option, found := options.Find(optionType)
	if !found {
		return s.fail(c, attempt, "checkout-options", myerrors.NewInvalidInputErrorf("checkout option %s is not offered", optionType))
	}

	submitReq := bokun.CheckoutSubmitRequest{
		CheckoutOption: option.Type,
		Source:         bokun.SourceShoppingCart,
		ShoppingCart:   bokun.CartReference{UUID: sessionID},
	}
	if option.RequiresPayment() {
		uti := option.UTI()
		if uti == "" {
			return s.fail(c, attempt, "checkout-options", myerrors.WithMessage(msgOptionsError,
				myerrors.NewConfigurationErrorf("checkout option %s has no payment provider", option.Type)))
		}
		locale := attempt.Lang.Locale()
		submitReq.PaymentMethod = bokun.PaymentMethodCard
		submitReq.PaymentToken = req.PaymentToken
		submitReq.UTI = uti
		submitReq.SuccessURL = fmt.Sprintf(redirectPathFormat, origin, locale, "success")
		submitReq.CancelURL = fmt.Sprintf(redirectPathFormat, origin, locale, "cancel")
		submitReq.ErrorURL = fmt.Sprintf(redirectPathFormat, origin, locale, "error")
	}

	resp, err := s.client.SubmitCheckout(c, submitReq)
	if err != nil {
		return s.fail(c, attempt, "checkout-submit", myerrors.WithMessage(msgSubmitError, err))
	}

	attempt.State = StateConfirmed
	attempt.BookingID = resp.Booking.BookingID.String()
	attempt.ConfirmationCode = resp.Booking.ConfirmationCode
	// booked totals only come from the provider
	attempt.Total = 0
	attempt.Currency = ""
	if resp.Booking.TotalPrice.Complete() {
		attempt.Total = *resp.Booking.TotalPrice.Amount
		attempt.Currency = resp.Booking.TotalPrice.Currency
	}
	if len(resp.Invoice) > 0 {
		attempt.Invoice = string(resp.Invoice)
	}

	err = s.save(c, attempt, checkoutevents.BookingConfirmed{
		SessionID:        sessionID,
		ConfirmationCode: attempt.ConfirmationCode,
		ActivityID:       attempt.ActivityID,
		UserID:           attempt.UserID,
		Total:            attempt.Total,
		Currency:         attempt.Currency,
	})
	if err != nil {
		return Status{}, err
	}

	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Checkout %s confirmed with code %s", sessionID, attempt.ConfirmationCode)

	s.persistBooking(c, attempt)

	return attempt.Status(), nil
}

// persistBooking is best effort: the provider already holds the booking
func (s *service) persistBooking(c context.Context, attempt Attempt) {
	if attempt.UserID == "" || attempt.ConfirmationCode == "" {
		return
	}

	err := s.bookingStore.Create(c, bookingrecord.BookingRecord{
		ConfirmationCode: attempt.ConfirmationCode,
		UserID:           attempt.UserID,
		SessionID:        attempt.SessionID,
		ActivityID:       attempt.ActivityID,
		Date:             attempt.Date,
		Total:            attempt.Total,
		Currency:         attempt.Currency,
		CreatedAt:        s.nower.Now(),
	})
	if err != nil {
		s.logger.Log(c, attempt.SessionID, mylog.SeverityError, "Error persisting booking %s of user %s: %s", attempt.ConfirmationCode, attempt.UserID, err)
	}
}

func (s *service) markSubmitting(c context.Context, sessionID string) (Attempt, error) {
	var attempt Attempt
	err := s.attemptStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		attempt, found, err = s.attemptStore.Get(c, sessionID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("checkout %s not found", sessionID))
		}
		if attempt.State != StatePaymentReady {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s is in state %s, not ready for submission", sessionID, attempt.State))
		}

		attempt.State = StateSubmitting
		attempt.LastModified = s.nower.Now()
		err = s.attemptStore.Put(c, sessionID, attempt)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Attempt{}, err
	}
	return attempt, nil
}

func (s *service) getAttempt(c context.Context, sessionID string) (Attempt, error) {
	attempt, found, err := s.attemptStore.Get(c, sessionID)
	if err != nil {
		return Attempt{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Attempt{}, myerrors.NewNotFoundError(fmt.Errorf("checkout %s not found", sessionID))
	}
	return attempt, nil
}

// fail moves the attempt into its terminal state and returns cause
func (s *service) fail(c context.Context, attempt Attempt, step string, cause error) (Status, error) {
	s.logger.Log(c, attempt.SessionID, mylog.SeverityError, "Checkout %s failed at %s: %s", attempt.SessionID, step, cause)

	attempt.State = StateFailed
	attempt.FailureReason = cause.Error()
	err := s.save(c, attempt, checkoutevents.CheckoutFailed{
		SessionID: attempt.SessionID,
		Step:      step,
		Reason:    cause.Error(),
	})
	if err != nil {
		s.logger.Log(c, attempt.SessionID, mylog.SeverityError, "Error recording failure of checkout %s: %s", attempt.SessionID, err)
	}
	return Status{}, cause
}

func (s *service) save(c context.Context, attempt Attempt, events ...myevents.Event) error {
	attempt.LastModified = s.nower.Now()

	return s.attemptStore.RunInTransaction(c, func(c context.Context) error {
		err := s.attemptStore.Put(c, attempt.SessionID, attempt)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing checkout %s: %s", attempt.SessionID, err))
		}

		for _, e := range events {
			err = s.publisher.Publish(c, checkoutevents.TopicName, e)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
			}
		}
		return nil
	})
}
