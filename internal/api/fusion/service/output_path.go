package fusionService

import (
	"ProjectFusion/internal/api/fusion"
	"os"
	"path/filepath"
	"strings"
)

// NormalizeOutputPath resolves the file the pipeline writes. A directory
// output receives "<source>-<target><ext>"; a file output keeps its name but
// takes the target extension.
func NormalizeOutputPath(sourcePath, targetPath, outputPath string) (string, error) {
	if !isFile(targetPath) {
		return outputPath, nil
	}

	targetBase := filepath.Base(targetPath)
	targetExt := filepath.Ext(targetBase)
	targetName := strings.TrimSuffix(targetBase, targetExt)

	if isDir(outputPath) {
		if isFile(sourcePath) {
			sourceBase := filepath.Base(sourcePath)
			sourceName := strings.TrimSuffix(sourceBase, filepath.Ext(sourceBase))
			return filepath.Join(outputPath, sourceName+"-"+targetName+targetExt), nil
		}
		return filepath.Join(outputPath, targetName+targetExt), nil
	}

	if outputPath != "" {
		outputBase := filepath.Base(outputPath)
		outputExt := filepath.Ext(outputBase)
		outputName := strings.TrimSuffix(outputBase, outputExt)
		outputDir := filepath.Dir(outputPath)

		if isDir(outputDir) && outputExt != "" {
			return filepath.Join(outputDir, outputName+targetExt), nil
		}
	}

	return "", fusion.ErrInvalidOutputPath
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
