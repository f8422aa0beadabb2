// README: Logger initialization (zap).
package infra

import "go.uber.org/zap"

func NewLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
