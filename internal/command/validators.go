// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"fmt"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json"}
	for _, v := range validOutputFlagValues {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", validOutputFlagValues)
}

func PeriodValidator(value any) error {
	var validPeriodFlagValues = []string{"daily", "weekly", "monthly"}
	for _, v := range validPeriodFlagValues {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", validPeriodFlagValues)
}
