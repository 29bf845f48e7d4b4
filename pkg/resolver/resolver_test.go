package resolver_test

import (
	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/profile"
)

var (
	notch      = profile.MustNew(uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"), "Notch")
	jeb        = profile.MustNew(uuid.MustParse("853c80ef-3c37-49fd-aa49-938b674adae6"), "jeb_")
	dinnerbone = profile.MustNew(uuid.MustParse("61699b2e-d327-4a01-9f1e-0ea8c3f06bc6"), "Dinnerbone")
)
