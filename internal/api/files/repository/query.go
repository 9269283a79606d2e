package filesRepository

const (
	queryCreateOutputFile = `
		INSERT INTO output_files (
			filename,
			format,
			size,
			url,
			created_at
		) VALUES (
			:filename,
			:format,
			:size,
			:url,
			:created_at
		)
		ON CONFLICT (filename) DO UPDATE SET
			size = EXCLUDED.size,
			url = EXCLUDED.url
	`

	queryDeleteOutputFile = `
		DELETE FROM output_files
		WHERE filename = :filename
	`

	queryListOutputFilesByDate = `
		SELECT
			filename,
			format,
			size,
			url,
			created_at
		FROM output_files
		WHERE created_at >= :from AND created_at < :to
		ORDER BY created_at DESC
	`
)
