package filesRepository

import (
	"ProjectFusion/internal/entity"
	contextPkg "ProjectFusion/pkg/context"
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *outputFileRepository) CreateOutputFile(ctx context.Context, file entity.OutputFile) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"filename":   file.Filename,
		"format":     file.Format,
		"size":       file.Size,
		"url":        file.URL,
		"created_at": file.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateOutputFile, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateOutputFile named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateOutputFile execution err")
		return err
	}

	return nil
}

func (r *outputFileRepository) DeleteOutputFile(ctx context.Context, filename string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"filename": filename,
	}

	query, args, err := sqlx.Named(queryDeleteOutputFile, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteOutputFile named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteOutputFile execution err")
		return err
	}

	return nil
}

func (r *outputFileRepository) ListOutputFilesByDate(ctx context.Context, from, to time.Time) ([]entity.OutputFile, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var outputFiles []entity.OutputFile

	argsKV := map[string]interface{}{
		"from": from,
		"to":   to,
	}

	query, args, err := sqlx.Named(queryListOutputFilesByDate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListOutputFilesByDate named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &outputFiles, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListOutputFilesByDate execution err")
		return nil, err
	}

	if outputFiles == nil {
		outputFiles = []entity.OutputFile{}
	}

	return outputFiles, nil
}
