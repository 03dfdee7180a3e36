package util

import "github.com/sirupsen/logrus"

// ContinueOrFatal exits the process when err is non-nil. Bootstrap-only: a
// service that cannot finish wiring has nothing useful left to do.
func ContinueOrFatal(err error) {
	if err != nil {
		logrus.Fatal(err)
	}
}
