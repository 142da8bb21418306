package effector

import "go.uber.org/zap"

// LogKeyboard logs key events instead of injecting them. It stands in until
// a platform key-injection backend is wired; the runtime's held-key
// bookkeeping works the same against it.
type LogKeyboard struct {
	logger *zap.Logger
}

// NewLogKeyboard creates a keyboard that only logs.
func NewLogKeyboard(logger *zap.Logger) *LogKeyboard {
	return &LogKeyboard{logger: logger}
}

func (k *LogKeyboard) Press(key string) error {
	k.logger.Info("key press", zap.String("key", key))
	return nil
}

func (k *LogKeyboard) Release(key string) error {
	k.logger.Info("key release", zap.String("key", key))
	return nil
}
