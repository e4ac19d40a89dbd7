package lf

import "go.uber.org/zap"

const (
	FieldModule    = "module"
	FieldGradeID   = "grade_id"
	FieldGradeIDs  = "grade_ids"
	FieldName      = "name"
	FieldScore     = "score"
	FieldKeyword   = "keyword"
	FieldCount     = "count"
	FieldBackend   = "backend"
	FieldRequestID = "request_id"
)

func Module(module string) zap.Field {
	return zap.String(FieldModule, module)
}

func GradeID(ID uint) zap.Field {
	return zap.Uint(FieldGradeID, ID)
}

func GradeIDs(IDs []uint) zap.Field {
	return zap.Uints(FieldGradeIDs, IDs)
}

func Name(name string) zap.Field {
	return zap.String(FieldName, name)
}

func Score(score float64) zap.Field {
	return zap.Float64(FieldScore, score)
}

func Keyword(keyword string) zap.Field {
	return zap.String(FieldKeyword, keyword)
}

func Count(count int) zap.Field {
	return zap.Int(FieldCount, count)
}

func Backend(backend string) zap.Field {
	return zap.String(FieldBackend, backend)
}

func RequestID(ID string) zap.Field {
	return zap.String(FieldRequestID, ID)
}
