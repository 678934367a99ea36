package checkout

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/services/bokun"
)

const (
	DefaultPhonePrefix = "+48"

	mainContactFirstName = "firstName"
	mainContactLastName  = "lastName"
	mainContactEmail     = "email"
	mainContactPhone     = "phoneNumber"
)

type QuestionKind string

const (
	QuestionsNone          QuestionKind = "none"
	QuestionsActivityOnly  QuestionKind = "activity"
	QuestionsPassengerOnly QuestionKind = "passenger"
	QuestionsBoth          QuestionKind = "both"
)

// QuestionRequirement is a single question, addressed by Key in answer maps
type QuestionRequirement struct {
	Key        string `json:"key"`
	BookingID  string `json:"bookingId,omitempty"`
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Required   bool   `json:"required"`
}

type QuestionSet struct {
	Kind      QuestionKind          `json:"kind"`
	Activity  []QuestionRequirement `json:"activity"`
	Passenger []QuestionRequirement `json:"passenger"`
}

// HasRequired tells if the user has to be asked before payment
func (q QuestionSet) HasRequired() bool {
	return q.Kind != QuestionsNone
}

// answerKey is the only place where answer keys are composed
func answerKey(bookingID string, questionID string) string {
	if bookingID == "" {
		return questionID
	}
	return bookingID + "_" + questionID
}

// classifyQuestions flattens the provider structure; only required questions decide the kind
func classifyQuestions(questions bokun.CartQuestions) QuestionSet {
	set := QuestionSet{
		Activity:  []QuestionRequirement{},
		Passenger: []QuestionRequirement{},
	}
	activityRequired := false
	passengerRequired := false

	for _, booking := range questions.ActivityBookings {
		for _, q := range booking.Questions {
			set.Activity = append(set.Activity, QuestionRequirement{
				Key:        answerKey("", q.QuestionID.String()),
				QuestionID: q.QuestionID.String(),
				Label:      q.Label,
				Required:   q.Required,
			})
			activityRequired = activityRequired || q.Required
		}
		for _, passenger := range booking.Passengers {
			for _, q := range passenger.PassengerDetails {
				set.Passenger = append(set.Passenger, QuestionRequirement{
					Key:        answerKey(passenger.BookingID.String(), q.QuestionID.String()),
					BookingID:  passenger.BookingID.String(),
					QuestionID: q.QuestionID.String(),
					Label:      q.Label,
					Required:   q.Required,
				})
				passengerRequired = passengerRequired || q.Required
			}
		}
	}

	switch {
	case activityRequired && passengerRequired:
		set.Kind = QuestionsBoth
	case activityRequired:
		set.Kind = QuestionsActivityOnly
	case passengerRequired:
		set.Kind = QuestionsPassengerOnly
	default:
		set.Kind = QuestionsNone
	}
	return set
}

func validateContact(contact Contact) error {
	missing := []string{}
	if strings.TrimSpace(contact.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(contact.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(contact.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(contact.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return myerrors.NewInvalidInputErrorf("missing contact fields: %s", strings.Join(missing, ", "))
	}

	_, err := mail.ParseAddress(contact.Email)
	if err != nil {
		return myerrors.NewInvalidInputErrorf("invalid email '%s'", contact.Email)
	}
	return nil
}

// validateAnswers checks locally; nothing goes to the provider when this fails
func validateAnswers(set QuestionSet, answers map[string]string, contact Contact) error {
	err := validateContact(contact)
	if err != nil {
		return err
	}

	missing := []string{}
	for _, q := range append(append([]QuestionRequirement{}, set.Activity...), set.Passenger...) {
		if q.Required && strings.TrimSpace(answers[q.Key]) == "" {
			missing = append(missing, q.Key)
		}
	}
	if len(missing) > 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing answers for required questions: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// normalizePhone keeps international numbers and prefixes local ones, keeping only digits
func normalizePhone(phone string, prefix string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	if prefix == "" {
		prefix = DefaultPhonePrefix
	}

	digits := strings.Builder{}
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return prefix + digits.String()
}

// buildCartAnswers follows the stored provider structure; blank optional answers are left out
func buildCartAnswers(questions bokun.CartQuestions, answers map[string]string, contact Contact, phonePrefix string) bokun.CartAnswers {
	payload := bokun.CartAnswers{
		MainContactDetails: []bokun.Answer{
			answer(mainContactFirstName, strings.TrimSpace(contact.FirstName)),
			answer(mainContactLastName, strings.TrimSpace(contact.LastName)),
			answer(mainContactEmail, strings.TrimSpace(contact.Email)),
			answer(mainContactPhone, normalizePhone(contact.Phone, phonePrefix)),
		},
		ActivityBookings: []bokun.ActivityAnswers{},
	}

	for _, booking := range questions.ActivityBookings {
		activityAnswers := bokun.ActivityAnswers{
			BookingID:  booking.BookingID,
			Answers:    []bokun.Answer{},
			Passengers: []bokun.PassengerAnswers{},
		}
		for _, q := range booking.Questions {
			value := strings.TrimSpace(answers[answerKey("", q.QuestionID.String())])
			if value == "" && !q.Required {
				continue
			}
			activityAnswers.Answers = append(activityAnswers.Answers, answer(q.QuestionID.String(), value))
		}
		for _, passenger := range booking.Passengers {
			passengerAnswers := bokun.PassengerAnswers{
				BookingID:        passenger.BookingID,
				PassengerDetails: []bokun.Answer{},
			}
			for _, q := range passenger.PassengerDetails {
				value := strings.TrimSpace(answers[answerKey(passenger.BookingID.String(), q.QuestionID.String())])
				if value == "" && !q.Required {
					value = contactDefault(q.QuestionID.String(), contact)
				}
				if value == "" && !q.Required {
					continue
				}
				passengerAnswers.PassengerDetails = append(passengerAnswers.PassengerDetails, answer(q.QuestionID.String(), value))
			}
			activityAnswers.Passengers = append(activityAnswers.Passengers, passengerAnswers)
		}
		payload.ActivityBookings = append(payload.ActivityBookings, activityAnswers)
	}
	return payload
}

func contactDefault(questionID string, contact Contact) string {
	switch questionID {
	case mainContactFirstName:
		return strings.TrimSpace(contact.FirstName)
	case mainContactLastName:
		return strings.TrimSpace(contact.LastName)
	default:
		return ""
	}
}

func answer(questionID string, value string) bokun.Answer {
	return bokun.Answer{
		QuestionID: bokun.ID(questionID),
		Values:     []string{value},
	}
}
