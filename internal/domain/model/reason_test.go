package model_test

import (
	"errors"
	"testing"

	"github.com/okian/contactd/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMessageCatalog(t *testing.T) {
	Convey("Given the message catalog", t, func() {
		Convey("When asking for an English message", func() {
			So(model.Message("en", model.ReasonMissingFields), ShouldEqual, "missing fields")
			So(model.Message("en", model.ReasonMessageTooLong), ShouldEqual, "message too long")
		})

		Convey("When asking for a Spanish message", func() {
			So(model.Message("ES", model.ReasonInvalidEmail), ShouldEqual, "email inválido")
		})

		Convey("When the locale is unknown", func() {
			So(model.Message("fr", model.ReasonSuspicious), ShouldEqual, "suspicious content detected")
			So(model.SupportedLocale("fr"), ShouldBeFalse)
		})

		Convey("When the reason is unknown", func() {
			So(model.Message("en", model.Reason("odd")), ShouldEqual, "odd")
		})

		Convey("When asking for the success acknowledgement", func() {
			So(model.SuccessMessage("en"), ShouldEqual, "message sent successfully")
			So(model.SuccessMessage("es"), ShouldEqual, "mensaje enviado correctamente")
			So(model.SuccessMessage("de"), ShouldEqual, "message sent successfully")
		})

		Convey("When every reason has a message in every locale", func() {
			reasons := []model.Reason{
				model.ReasonThrottled, model.ReasonMissingFields, model.ReasonInvalidEmail,
				model.ReasonNameTooLong, model.ReasonEmailTooLong, model.ReasonMessageTooShort,
				model.ReasonMessageTooLong, model.ReasonSuspicious, model.ReasonRenderError,
				model.ReasonDispatchError, model.ReasonInternal,
			}
			for _, locale := range []string{"en", "es"} {
				for _, r := range reasons {
					So(model.Message(locale, r), ShouldNotEqual, string(r))
				}
			}
		})
	})
}

func TestRejection(t *testing.T) {
	Convey("Given a rejection", t, func() {
		var err error = model.Reject("en", model.ReasonNameTooLong)

		Convey("Then it behaves as an error carrying its reason", func() {
			So(err.Error(), ShouldEqual, "name too long")
			var rej *model.Rejection
			So(errors.As(err, &rej), ShouldBeTrue)
			So(rej.Reason, ShouldEqual, model.ReasonNameTooLong)
		})
	})
}
